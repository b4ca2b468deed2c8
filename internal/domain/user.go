package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the domain entity for a user account.
// Email is stored lower-cased. PasswordHash is a bcrypt hash, never the plaintext.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
