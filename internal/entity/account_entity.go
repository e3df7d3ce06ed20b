package entity

import (
	"time"

	"github.com/google/uuid"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusDisabled AccountStatus = "disabled"
)

// Account is provisioned by an external registration system. This service
// only reads accounts; it never creates or mutates them.
type Account struct {
	Id           uuid.UUID
	Email        string
	FullName     string
	PasswordHash *string
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
