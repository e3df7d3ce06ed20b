package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PublicId  string    `gorm:"type:varchar(64);not null;uniqueIndex"` // opaque client-facing identifier
	AccountId uuid.UUID `gorm:"type:uuid;not null;index"`              // owner, immutable after creation
	Title     string    `gorm:"type:text;not null"`
	Status    string    `gorm:"type:varchar(50);not null;default:'active'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
