package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetMessage is queued for the mail consumer when a reset is
// requested. The raw token only travels inside ResetURL.
type PasswordResetMessage struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	ResetURL    string    `json:"reset_url"`
	ExpiresAt   time.Time `json:"expires_at"`
	RequestedAt time.Time `json:"requested_at"`
}
