package unitofwork

import (
	"context"

	"ai-supportchat-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one request and, when Begin is
// called, to one transaction. The two-turn append in the messaging flow
// relies on this so a failed persist leaves the turn log untouched.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AccountRepository() contract.AccountRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
