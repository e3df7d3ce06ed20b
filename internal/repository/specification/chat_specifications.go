package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByPublicId filters sessions by the opaque client-facing identifier.
// Session lookups never use the storage primary key.
type ByPublicId struct {
	PublicId string
}

func (s ByPublicId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("public_id = ?", s.PublicId)
}

// OwnedBy filters by owning account.
type OwnedBy struct {
	AccountId uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("account_id = ?", s.AccountId)
}

// ByChatSessionId filters messages belonging to one session.
type ByChatSessionId struct {
	ChatSessionId uuid.UUID
}

func (s ByChatSessionId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionId)
}
