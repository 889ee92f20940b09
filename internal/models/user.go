package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"-" db:"password_hash"` // Never serialize in JSON
	FirstName        string     `json:"first_name" db:"first_name"`
	LastName         string     `json:"last_name" db:"last_name"`
	Role             Role       `json:"role" db:"role"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	AirlineID        *uuid.UUID `json:"airline_id" db:"airline_id"`
	ResetTokenHash   *string    `json:"-" db:"reset_token_hash"`
	ResetTokenExpiry *time.Time `json:"-" db:"reset_token_expiry"`
	LastLogin        *time.Time `json:"last_login" db:"last_login"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`

	// Airline is populated by lookups that join the owning tenant.
	Airline *Airline `json:"-" db:"-"`
}

// UserProfile is the public view of a user.
type UserProfile struct {
	ID        uuid.UUID       `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      Role            `json:"role"`
	IsActive  bool            `json:"is_active"`
	AirlineID *uuid.UUID      `json:"airline_id"`
	Airline   *AirlineSummary `json:"airline"`
	LastLogin *time.Time      `json:"last_login"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Profile returns the public view of u.
func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		AirlineID: u.AirlineID,
		Airline:   u.Airline.Summary(),
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
