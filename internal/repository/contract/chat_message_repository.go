package contract

import (
	"context"

	"ai-supportchat-be/internal/entity"
	"ai-supportchat-be/internal/repository/specification"
)

// ChatMessageRepository is append-only: turns are created, never updated or
// deleted.
type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
