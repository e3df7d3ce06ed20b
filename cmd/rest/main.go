package main

import (
	"context"
	"log"

	"ai-supportchat-be/internal/bootstrap"
	"ai-supportchat-be/internal/config"
	"ai-supportchat-be/internal/server"
	"ai-supportchat-be/internal/tracer"
	"ai-supportchat-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
