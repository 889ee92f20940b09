package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactGroup struct {
	ID           uuid.UUID `json:"id" db:"id"`
	AirlineID    uuid.UUID `json:"airline_id" db:"airline_id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	Order        int       `json:"order" db:"sort_order"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	ContactCount int       `json:"contact_count" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Contact struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	GroupID   uuid.UUID      `json:"group_id" db:"group_id"`
	AirlineID uuid.UUID      `json:"airline_id" db:"airline_id"`
	FirstName string         `json:"first_name" db:"first_name"`
	LastName  string         `json:"last_name" db:"last_name"`
	Title     *string        `json:"title,omitempty" db:"title"`
	Company   *string        `json:"company,omitempty" db:"company"`
	Phone     *string        `json:"phone,omitempty" db:"phone"`
	Email     *string        `json:"email,omitempty" db:"email"`
	Timezone  *string        `json:"timezone,omitempty" db:"timezone"`
	Avatar    *string        `json:"avatar,omitempty" db:"avatar"`
	Order     int            `json:"order" db:"sort_order"`
	Metadata  map[string]any `json:"metadata" db:"metadata"`
	IsActive  bool           `json:"is_active" db:"is_active"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}
