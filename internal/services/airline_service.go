package services

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"

	"opsmanual/internal/caching"
	"opsmanual/internal/common"
	"opsmanual/internal/models"
	"opsmanual/internal/repositories"
	"opsmanual/pkg/logger"

	"github.com/google/uuid"
)

var airlineCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

type AirlineService interface {
	List(ctx context.Context, identity *models.Identity, includeInactive bool) ([]*models.Airline, error)
	Get(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Airline, error)
	Create(ctx context.Context, req *CreateAirlineRequest) (*models.Airline, error)
	Update(ctx context.Context, identity *models.Identity, id uuid.UUID, req *UpdateAirlineRequest) (*models.Airline, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Airline, error)
	UploadLogo(ctx context.Context, identity *models.Identity, id uuid.UUID, upload *LogoUpload) (*models.Airline, error)
}

type CreateAirlineRequest struct {
	Code     string         `json:"code"`
	Name     string         `json:"name"`
	Branding map[string]any `json:"branding"`
}

// UpdateAirlineRequest holds optional fields; nil leaves the value unchanged.
type UpdateAirlineRequest struct {
	Code     *string        `json:"code"`
	Name     *string        `json:"name"`
	Branding map[string]any `json:"branding"`
	IsActive *bool          `json:"is_active"`
}

type LogoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type airlineService struct {
	airlines repositories.AirlineRepository
	users    repositories.UserRepository
	cache    caching.CacheService
	storage  StorageService
}

// NewAirlineService wires the airline service. storage may be nil, in which
// case logo uploads are rejected.
func NewAirlineService(airlines repositories.AirlineRepository, users repositories.UserRepository, cache caching.CacheService, storage StorageService) AirlineService {
	return &airlineService{airlines: airlines, users: users, cache: cache, storage: storage}
}

func normalizeAirlineCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !airlineCodePattern.MatchString(code) {
		return "", common.NewValidationError("code", "code must be 2-10 letters or digits")
	}
	return code, nil
}

func (s *airlineService) List(ctx context.Context, identity *models.Identity, includeInactive bool) ([]*models.Airline, error) {
	if !identity.IsSuperAdmin() {
		own, err := EffectiveAirlineID(identity, nil)
		if err != nil {
			return nil, err
		}
		airline, err := s.load(ctx, *own)
		if err != nil {
			return nil, err
		}
		return []*models.Airline{airline}, nil
	}
	airlines, err := s.airlines.List(ctx, includeInactive)
	if err != nil {
		return nil, common.NewInternalError("Failed to list airlines", err)
	}
	if airlines == nil {
		airlines = []*models.Airline{}
	}
	return airlines, nil
}

func (s *airlineService) Get(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Airline, error) {
	if err := CheckAirlineAccess(identity, id); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// load reads through the airline cache.
func (s *airlineService) load(ctx context.Context, id uuid.UUID) (*models.Airline, error) {
	cached, err := s.cache.GetAirline(ctx, id)
	if err != nil {
		logger.Log.WithError(err).WithField("airline_id", id).Warn("airline cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	airline, err := s.airlines.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("Airline")
		}
		return nil, common.NewInternalError("Failed to load airline", err)
	}
	if err := s.cache.SetAirline(ctx, airline); err != nil {
		logger.Log.WithError(err).WithField("airline_id", id).Warn("airline cache write failed")
	}
	return airline, nil
}

func (s *airlineService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.DeleteAirline(ctx, id); err != nil {
		logger.Log.WithError(err).WithField("airline_id", id).Warn("airline cache invalidation failed")
	}
}

func (s *airlineService) Create(ctx context.Context, req *CreateAirlineRequest) (*models.Airline, error) {
	code, err := normalizeAirlineCode(req.Code)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, err
	}

	airline := &models.Airline{
		ID:       uuid.New(),
		Code:     code,
		Name:     name,
		Branding: req.Branding,
		IsActive: true,
	}
	if err := s.airlines.Create(ctx, airline); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, common.NewConflictError("Airline code already exists")
		}
		return nil, common.NewInternalError("Failed to create airline", err)
	}
	return s.reload(ctx, airline.ID)
}

func (s *airlineService) Update(ctx context.Context, identity *models.Identity, id uuid.UUID, req *UpdateAirlineRequest) (*models.Airline, error) {
	if err := CheckAirlineAccess(identity, id); err != nil {
		return nil, err
	}
	if req.IsActive != nil && !identity.IsSuperAdmin() {
		return nil, common.NewForbiddenError("Only SUPER_ADMIN can change airline status")
	}

	existing, err := s.airlines.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("Airline")
		}
		return nil, common.NewInternalError("Failed to load airline", err)
	}

	if req.Code != nil {
		code, err := normalizeAirlineCode(*req.Code)
		if err != nil {
			return nil, err
		}
		existing.Code = code
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := common.ValidateRequiredString(name, "name"); err != nil {
			return nil, err
		}
		existing.Name = name
	}
	if req.Branding != nil {
		existing.Branding = req.Branding
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	if err := s.airlines.Update(ctx, existing); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, common.NewConflictError("Airline code already exists")
		}
		return nil, common.NewInternalError("Failed to update airline", err)
	}
	s.invalidate(ctx, id)
	return s.reload(ctx, id)
}

// Delete refuses to remove an airline that still owns users.
func (s *airlineService) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.users.CountByAirline(ctx, id)
	if err != nil {
		return common.NewInternalError("Failed to count airline users", err)
	}
	if count > 0 {
		return common.NewConflictError("Cannot delete airline with existing users")
	}
	if err := s.airlines.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.NewNotFoundError("Airline")
		}
		return common.NewInternalError("Failed to delete airline", err)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *airlineService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Airline, error) {
	if err := s.airlines.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("Airline")
		}
		return nil, common.NewInternalError("Failed to update airline", err)
	}
	s.invalidate(ctx, id)
	return s.reload(ctx, id)
}

func (s *airlineService) UploadLogo(ctx context.Context, identity *models.Identity, id uuid.UUID, upload *LogoUpload) (*models.Airline, error) {
	if err := CheckAirlineAccess(identity, id); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, common.NewInternalError("Logo storage is not configured", nil)
	}
	if _, err := LogoObjectName(id, upload.ContentType); err != nil {
		return nil, common.NewValidationError("logo", "logo must be a PNG, JPEG, SVG or WebP image")
	}

	airline, err := s.airlines.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("Airline")
		}
		return nil, common.NewInternalError("Failed to load airline", err)
	}

	logoURL, err := s.storage.UploadLogo(ctx, id, upload.Filename, upload.ContentType, upload.Reader, upload.Size)
	if err != nil {
		return nil, common.NewInternalError("Failed to store logo", err)
	}

	if airline.Branding == nil {
		airline.Branding = map[string]any{}
	}
	airline.Branding["logoUrl"] = logoURL
	if err := s.airlines.Update(ctx, airline); err != nil {
		return nil, common.NewInternalError("Failed to update airline", err)
	}
	s.invalidate(ctx, id)
	return s.reload(ctx, id)
}

func (s *airlineService) reload(ctx context.Context, id uuid.UUID) (*models.Airline, error) {
	airline, err := s.airlines.GetByID(ctx, id)
	if err != nil {
		return nil, common.NewInternalError("Failed to load airline", err)
	}
	return airline, nil
}
