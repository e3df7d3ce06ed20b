package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusClosed SessionStatus = "closed"
)

// ChatSession is one ongoing conversation. PublicId is the opaque identifier
// exposed to clients; lookups always go through it, never the storage key.
// AccountId is immutable after creation and gates every read and append.
type ChatSession struct {
	Id        uuid.UUID
	PublicId  string
	AccountId uuid.UUID
	Title     string
	Status    SessionStatus
	CreatedAt time.Time
	UpdatedAt *time.Time
}
