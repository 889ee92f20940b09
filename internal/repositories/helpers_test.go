package repositories

import (
	"time"

	"opsmanual/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

var userColumnNames = []string{
	"id", "email", "password_hash", "first_name", "last_name", "role", "is_active",
	"airline_id", "reset_token_hash", "reset_token_expiry", "last_login", "created_at", "updated_at",
	"code", "name", "branding", "is_active",
}

func stringPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// userValues renders u the way userSelect returns it.
func userValues(u *models.User, airline *models.Airline) []any {
	values := []any{u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, string(u.Role), u.IsActive,
		u.AirlineID, u.ResetTokenHash, u.ResetTokenExpiry, u.LastLogin, u.CreatedAt, u.UpdatedAt}
	if airline == nil {
		return append(values, (*string)(nil), (*string)(nil), map[string]any(nil), (*bool)(nil))
	}
	return append(values, stringPtr(airline.Code), stringPtr(airline.Name), airline.Branding, boolPtr(airline.IsActive))
}

func userRows(u *models.User, airline *models.Airline) *pgxmock.Rows {
	return pgxmock.NewRows(userColumnNames).AddRow(userValues(u, airline)...)
}

func fixtureAirline() *models.Airline {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Airline{
		ID:        uuid.New(),
		Code:      "AA",
		Name:      "American Airlines",
		Branding:  map[string]any{"primaryColor": "#0078D2"},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func fixtureUser(role models.Role, airline *models.Airline) *models.User {
	now := time.Now().UTC().Truncate(time.Second)
	u := &models.User{
		ID:           uuid.New(),
		Email:        "editor@aa.com",
		PasswordHash: "$2a$12$hash",
		FirstName:    "Eddie",
		LastName:     "Editor",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if airline != nil {
		id := airline.ID
		u.AirlineID = &id
	}
	return u
}
