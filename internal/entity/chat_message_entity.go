package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is a single turn within a session. Turns are append-only and
// immutable once written; Seq preserves the exact append order.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	Seq           int
	Metadata      *MessageMetadata
	CreatedAt     time.Time
}

// MessageMetadata is attached to assistant turns only.
type MessageMetadata struct {
	Analysis *Analysis        `json:"analysis,omitempty"`
	Progress *ProgressSummary `json:"progress,omitempty"`
}
