package main

import (
	"log"

	"ai-supportchat-be/internal/config"
	"ai-supportchat-be/internal/model"
	"ai-supportchat-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&model.Account{},
		&model.ChatSession{},
		&model.ChatMessage{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration completed")
}
