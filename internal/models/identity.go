package models

import "github.com/google/uuid"

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	Role      Role
	AirlineID *uuid.UUID
	Airline   *AirlineSummary
}

// IsSuperAdmin reports whether the identity has global access.
func (i *Identity) IsSuperAdmin() bool {
	return i != nil && i.Role == RoleSuperAdmin
}

// NewIdentity builds the request identity for u. The password hash and reset
// token are never copied.
func NewIdentity(u *User) *Identity {
	return &Identity{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		AirlineID: u.AirlineID,
		Airline:   u.Airline.Summary(),
	}
}
