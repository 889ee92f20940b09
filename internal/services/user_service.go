package services

import (
	"context"
	"errors"
	"strings"

	"opsmanual/internal/common"
	"opsmanual/internal/models"
	"opsmanual/internal/repositories"
	"opsmanual/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const minUserPasswordLength = 8

// UserService manages user accounts on behalf of an ADMIN or SUPER_ADMIN.
type UserService interface {
	List(ctx context.Context, identity *models.Identity, filter UserListFilter) ([]*models.UserProfile, error)
	Get(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.UserProfile, error)
	Create(ctx context.Context, identity *models.Identity, req *CreateUserRequest) (*models.UserProfile, error)
	Update(ctx context.Context, identity *models.Identity, id uuid.UUID, req *UpdateUserRequest) (*models.UserProfile, error)
	Deactivate(ctx context.Context, identity *models.Identity, id uuid.UUID) error
	Activate(ctx context.Context, identity *models.Identity, id uuid.UUID) error
	ChangePassword(ctx context.Context, identity *models.Identity, id uuid.UUID, newPassword string) error
}

type UserListFilter struct {
	AirlineID       *uuid.UUID
	IncludeInactive bool
	Limit           int
	Offset          int
}

type CreateUserRequest struct {
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      string     `json:"role"`
	AirlineID *uuid.UUID `json:"airline_id"`
	IsActive  *bool      `json:"is_active"`
}

// UpdateUserRequest holds optional fields; nil leaves the value unchanged.
type UpdateUserRequest struct {
	Email     *string    `json:"email"`
	Password  *string    `json:"password"`
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	Role      *string    `json:"role"`
	AirlineID *uuid.UUID `json:"airline_id"`
	IsActive  *bool      `json:"is_active"`
}

type userService struct {
	users         repositories.UserRepository
	airlines      repositories.AirlineRepository
	refreshTokens repositories.RefreshTokenRepository
	hasher        PasswordHasher
}

func NewUserService(users repositories.UserRepository, airlines repositories.AirlineRepository,
	refreshTokens repositories.RefreshTokenRepository, hasher PasswordHasher) UserService {
	return &userService{users: users, airlines: airlines, refreshTokens: refreshTokens, hasher: hasher}
}

func requireUserAdmin(identity *models.Identity) error {
	if identity == nil {
		return common.ErrUnauthenticated
	}
	if !identity.Role.AtLeast(models.RoleAdmin) {
		return common.NewForbiddenError("Only SUPER_ADMIN and ADMIN can manage users")
	}
	return nil
}

func (s *userService) List(ctx context.Context, identity *models.Identity, filter UserListFilter) ([]*models.UserProfile, error) {
	if err := requireUserAdmin(identity); err != nil {
		return nil, err
	}
	airlineID, err := EffectiveAirlineID(identity, filter.AirlineID)
	if err != nil {
		return nil, err
	}
	limit, offset := common.ValidatePaginationParams(filter.Limit, filter.Offset)

	users, err := s.users.List(ctx, repositories.UserFilter{
		AirlineID:       airlineID,
		IncludeInactive: filter.IncludeInactive,
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		return nil, common.NewInternalError("Failed to list users", err)
	}

	profiles := make([]*models.UserProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

// load fetches a user and checks it belongs to the caller's tenant.
func (s *userService) load(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("User")
		}
		return nil, common.NewInternalError("Failed to load user", err)
	}
	if identity.IsSuperAdmin() {
		return user, nil
	}
	if user.AirlineID == nil {
		return nil, common.NewForbiddenError("Access denied to this user")
	}
	if err := CheckAirlineAccess(identity, *user.AirlineID); err != nil {
		return nil, common.NewForbiddenError("Access denied to this user")
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.UserProfile, error) {
	if err := requireUserAdmin(identity); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

func (s *userService) requireAirline(ctx context.Context, id uuid.UUID) error {
	if _, err := s.airlines.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.NewNotFoundError("Airline")
		}
		return common.NewInternalError("Failed to load airline", err)
	}
	return nil
}

func (s *userService) Create(ctx context.Context, identity *models.Identity, req *CreateUserRequest) (*models.UserProfile, error) {
	if err := requireUserAdmin(identity); err != nil {
		return nil, err
	}

	email, err := common.ValidateEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := common.ValidatePassword(req.Password, "password", minUserPasswordLength); err != nil {
		return nil, err
	}
	firstName, lastName := strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)
	if err := common.ValidateRequiredString(firstName, "first_name"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(lastName, "last_name"); err != nil {
		return nil, err
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		return nil, common.NewValidationError("role", "role must be one of SUPER_ADMIN, ADMIN, EDITOR, VIEWER")
	}

	var airlineID *uuid.UUID
	if role == models.RoleSuperAdmin {
		if !identity.IsSuperAdmin() {
			return nil, common.NewForbiddenError("Only SUPER_ADMIN can create SUPER_ADMIN users")
		}
		if req.AirlineID != nil {
			return nil, common.NewValidationError("airline_id", "SUPER_ADMIN cannot be associated with an airline")
		}
	} else {
		target, err := RequireAirlineID(identity, req.AirlineID)
		if err != nil {
			if errors.Is(err, common.ErrValidation) {
				return nil, common.NewValidationError("airline_id", "Airline is required for non-SUPER_ADMIN users")
			}
			return nil, err
		}
		if err := s.requireAirline(ctx, target); err != nil {
			return nil, err
		}
		airlineID = &target
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, common.NewInternalError("Failed to hash password", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		IsActive:     req.IsActive == nil || *req.IsActive,
		AirlineID:    airlineID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, common.NewConflictError("Email already exists")
		}
		return nil, common.NewInternalError("Failed to create user", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"event":      "user.created",
		"user_id":    user.ID,
		"airline_id": user.AirlineID,
		"actor_id":   identity.UserID,
	}).Info("user created")

	created, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, common.NewInternalError("Failed to load user", err)
	}
	return created.Profile(), nil
}

func (s *userService) Update(ctx context.Context, identity *models.Identity, id uuid.UUID, req *UpdateUserRequest) (*models.UserProfile, error) {
	if err := requireUserAdmin(identity); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email, err := common.ValidateEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if req.FirstName != nil {
		firstName := strings.TrimSpace(*req.FirstName)
		if err := common.ValidateRequiredString(firstName, "first_name"); err != nil {
			return nil, err
		}
		user.FirstName = firstName
	}
	if req.LastName != nil {
		lastName := strings.TrimSpace(*req.LastName)
		if err := common.ValidateRequiredString(lastName, "last_name"); err != nil {
			return nil, err
		}
		user.LastName = lastName
	}
	if req.Role != nil || req.AirlineID != nil {
		if !identity.IsSuperAdmin() {
			return nil, common.NewForbiddenError("Only SUPER_ADMIN can change roles or airline assignments")
		}
		if err := s.applyAssignment(ctx, user, req); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		if !*req.IsActive && user.ID == identity.UserID {
			return nil, common.NewValidationError("is_active", "You cannot deactivate your own account")
		}
		user.IsActive = *req.IsActive
	}

	var newHash string
	if req.Password != nil {
		if err := common.ValidatePassword(*req.Password, "password", minUserPasswordLength); err != nil {
			return nil, err
		}
		if newHash, err = s.hasher.Hash(*req.Password); err != nil {
			return nil, common.NewInternalError("Failed to hash password", err)
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, common.NewConflictError("Email already exists")
		}
		return nil, common.NewInternalError("Failed to update user", err)
	}
	if newHash != "" {
		if err := s.setPassword(ctx, user.ID, newHash); err != nil {
			return nil, err
		}
	}

	updated, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, common.NewInternalError("Failed to load user", err)
	}
	return updated.Profile(), nil
}

// applyAssignment changes role and airline together so the SUPER_ADMIN
// without airline rule holds on the result.
func (s *userService) applyAssignment(ctx context.Context, user *models.User, req *UpdateUserRequest) error {
	role := user.Role
	if req.Role != nil {
		parsed, ok := models.ParseRole(*req.Role)
		if !ok {
			return common.NewValidationError("role", "role must be one of SUPER_ADMIN, ADMIN, EDITOR, VIEWER")
		}
		role = parsed
	}

	airlineID := user.AirlineID
	if req.AirlineID != nil {
		if err := s.requireAirline(ctx, *req.AirlineID); err != nil {
			return err
		}
		id := *req.AirlineID
		airlineID = &id
	}

	if role == models.RoleSuperAdmin {
		if req.AirlineID != nil {
			return common.NewValidationError("airline_id", "SUPER_ADMIN cannot be associated with an airline")
		}
		airlineID = nil
	} else if airlineID == nil {
		return common.NewValidationError("airline_id", "Airline is required for non-SUPER_ADMIN users")
	}

	user.Role = role
	user.AirlineID = airlineID
	return nil
}

// Deactivate is the soft delete for users.
func (s *userService) Deactivate(ctx context.Context, identity *models.Identity, id uuid.UUID) error {
	if err := requireUserAdmin(identity); err != nil {
		return err
	}
	if id == identity.UserID {
		return common.NewValidationError("id", "You cannot delete your own account")
	}
	return s.setActive(ctx, identity, id, false)
}

func (s *userService) Activate(ctx context.Context, identity *models.Identity, id uuid.UUID) error {
	if err := requireUserAdmin(identity); err != nil {
		return err
	}
	return s.setActive(ctx, identity, id, true)
}

func (s *userService) setActive(ctx context.Context, identity *models.Identity, id uuid.UUID, active bool) error {
	user, err := s.load(ctx, identity, id)
	if err != nil {
		return err
	}
	user.IsActive = active
	if err := s.users.Update(ctx, user); err != nil {
		return common.NewInternalError("Failed to update user", err)
	}
	return nil
}

// ChangePassword lets a user change their own password, or an admin change
// the password of a user in their airline. All sessions of the user are
// revoked.
func (s *userService) ChangePassword(ctx context.Context, identity *models.Identity, id uuid.UUID, newPassword string) error {
	if identity == nil {
		return common.ErrUnauthenticated
	}
	if id != identity.UserID {
		if err := requireUserAdmin(identity); err != nil {
			return err
		}
	}
	if _, err := s.load(ctx, identity, id); err != nil {
		return err
	}
	if err := common.ValidatePassword(newPassword, "password", minUserPasswordLength); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return common.NewInternalError("Failed to hash password", err)
	}
	return s.setPassword(ctx, id, hash)
}

func (s *userService) setPassword(ctx context.Context, id uuid.UUID, hash string) error {
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return common.NewInternalError("Failed to update password", err)
	}
	revoked, err := s.refreshTokens.DeleteByUser(ctx, id)
	if err != nil {
		return common.NewInternalError("Failed to revoke sessions", err)
	}
	logger.Log.WithFields(logrus.Fields{
		"event":   "password.changed",
		"user_id": id,
		"revoked": revoked,
	}).Info("password changed; sessions revoked")
	return nil
}
