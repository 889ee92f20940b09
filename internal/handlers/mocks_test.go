package handlers

import (
	"context"

	"opsmanual/internal/models"
	"opsmanual/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*models.AccessTokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccessTokenResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

func (m *MockAuthService) ResolveIdentity(ctx context.Context, userID uuid.UUID) (*models.Identity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockAuthService) PurgeExpiredCredentials(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

type MockAirlineService struct {
	mock.Mock
}

func (m *MockAirlineService) List(ctx context.Context, identity *models.Identity, includeInactive bool) ([]*models.Airline, error) {
	args := m.Called(ctx, identity, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Airline), args.Error(1)
}

func (m *MockAirlineService) Get(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Airline, error) {
	args := m.Called(ctx, identity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Airline), args.Error(1)
}

func (m *MockAirlineService) Create(ctx context.Context, req *services.CreateAirlineRequest) (*models.Airline, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Airline), args.Error(1)
}

func (m *MockAirlineService) Update(ctx context.Context, identity *models.Identity, id uuid.UUID, req *services.UpdateAirlineRequest) (*models.Airline, error) {
	args := m.Called(ctx, identity, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Airline), args.Error(1)
}

func (m *MockAirlineService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAirlineService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Airline, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Airline), args.Error(1)
}

func (m *MockAirlineService) UploadLogo(ctx context.Context, identity *models.Identity, id uuid.UUID, upload *services.LogoUpload) (*models.Airline, error) {
	args := m.Called(ctx, identity, id, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Airline), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, identity *models.Identity, filter services.UserListFilter) ([]*models.UserProfile, error) {
	args := m.Called(ctx, identity, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserProfile), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.UserProfile, error) {
	args := m.Called(ctx, identity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, identity *models.Identity, req *services.CreateUserRequest) (*models.UserProfile, error) {
	args := m.Called(ctx, identity, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, identity *models.Identity, id uuid.UUID, req *services.UpdateUserRequest) (*models.UserProfile, error) {
	args := m.Called(ctx, identity, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockUserService) Deactivate(ctx context.Context, identity *models.Identity, id uuid.UUID) error {
	return m.Called(ctx, identity, id).Error(0)
}

func (m *MockUserService) Activate(ctx context.Context, identity *models.Identity, id uuid.UUID) error {
	return m.Called(ctx, identity, id).Error(0)
}

func (m *MockUserService) ChangePassword(ctx context.Context, identity *models.Identity, id uuid.UUID, newPassword string) error {
	return m.Called(ctx, identity, id, newPassword).Error(0)
}

// MockManualService overrides the calls exercised by the handler tests.
type MockManualService struct {
	mock.Mock
	services.ManualService
}

func (m *MockManualService) ListChapters(ctx context.Context, identity *models.Identity, airlineID *uuid.UUID, includeInactive bool) ([]*models.Chapter, error) {
	args := m.Called(ctx, identity, airlineID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Chapter), args.Error(1)
}

func (m *MockManualService) GetChapter(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Chapter, error) {
	args := m.Called(ctx, identity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chapter), args.Error(1)
}

func (m *MockManualService) CreateSection(ctx context.Context, identity *models.Identity, chapterID uuid.UUID, req *services.CreateSectionRequest) (*models.Section, error) {
	args := m.Called(ctx, identity, chapterID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Section), args.Error(1)
}

func (m *MockManualService) DeleteContent(ctx context.Context, identity *models.Identity, id uuid.UUID) error {
	return m.Called(ctx, identity, id).Error(0)
}

type MockContactService struct {
	mock.Mock
	services.ContactService
}

func (m *MockContactService) CreateContact(ctx context.Context, identity *models.Identity, req *services.ContactRequest) (*models.Contact, error) {
	args := m.Called(ctx, identity, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contact), args.Error(1)
}

func (m *MockContactService) DeleteGroup(ctx context.Context, identity *models.Identity, id uuid.UUID) error {
	return m.Called(ctx, identity, id).Error(0)
}

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, identity *models.Identity, query string, airlineID *uuid.UUID) ([]*models.SearchResult, error) {
	args := m.Called(ctx, identity, query, airlineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SearchResult), args.Error(1)
}

func (m *MockSearchService) SearchInChapter(ctx context.Context, identity *models.Identity, chapterID uuid.UUID, query string) ([]*models.SearchResult, error) {
	args := m.Called(ctx, identity, chapterID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SearchResult), args.Error(1)
}
