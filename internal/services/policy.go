package services

import (
	"opsmanual/internal/common"
	"opsmanual/internal/models"

	"github.com/google/uuid"
)

// EffectiveAirlineID resolves the tenant an operation runs against. Regular
// users are pinned to their own airline and may not name another one.
// SUPER_ADMIN gets the requested airline, or nil for every tenant.
func EffectiveAirlineID(identity *models.Identity, requested *uuid.UUID) (*uuid.UUID, error) {
	if identity == nil {
		return nil, common.ErrUnauthenticated
	}
	if identity.IsSuperAdmin() {
		return requested, nil
	}
	if identity.AirlineID == nil {
		return nil, common.NewForbiddenError("User is not assigned to an airline")
	}
	if requested != nil && *requested != *identity.AirlineID {
		return nil, common.NewForbiddenError("Access denied to this airline")
	}
	own := *identity.AirlineID
	return &own, nil
}

// RequireAirlineID is EffectiveAirlineID for operations that need exactly one
// tenant, such as creates. SUPER_ADMIN must name it.
func RequireAirlineID(identity *models.Identity, requested *uuid.UUID) (uuid.UUID, error) {
	airlineID, err := EffectiveAirlineID(identity, requested)
	if err != nil {
		return uuid.Nil, err
	}
	if airlineID == nil {
		return uuid.Nil, common.NewValidationError("airline_id", "airline_id is required")
	}
	return *airlineID, nil
}

// CheckAirlineAccess verifies that a resource owned by airlineID is visible
// to identity.
func CheckAirlineAccess(identity *models.Identity, airlineID uuid.UUID) error {
	if identity == nil {
		return common.ErrUnauthenticated
	}
	if identity.IsSuperAdmin() {
		return nil
	}
	if identity.AirlineID == nil {
		return common.NewForbiddenError("User is not assigned to an airline")
	}
	if *identity.AirlineID != airlineID {
		return common.NewForbiddenError("Access denied to this resource")
	}
	return nil
}
