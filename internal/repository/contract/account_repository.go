package contract

import (
	"context"

	"ai-supportchat-be/internal/entity"
	"ai-supportchat-be/internal/repository/specification"
)

// AccountRepository is read-only: accounts are provisioned and retired by an
// external registration system.
type AccountRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Account, error)
}
