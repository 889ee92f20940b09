package models

import (
	"time"

	"github.com/google/uuid"
)

// Airline is the tenant boundary.
type Airline struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	Code      string         `json:"code" db:"code"`
	Name      string         `json:"name" db:"name"`
	Branding  map[string]any `json:"branding" db:"branding"`
	IsActive  bool           `json:"is_active" db:"is_active"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// AirlineSummary is the airline projection embedded in user profiles.
type AirlineSummary struct {
	ID       uuid.UUID      `json:"id"`
	Code     string         `json:"code"`
	Name     string         `json:"name"`
	Branding map[string]any `json:"branding,omitempty"`
	IsActive bool           `json:"is_active"`
}

// Summary projects a to its profile form.
func (a *Airline) Summary() *AirlineSummary {
	if a == nil {
		return nil
	}
	return &AirlineSummary{ID: a.ID, Code: a.Code, Name: a.Name, Branding: a.Branding, IsActive: a.IsActive}
}
