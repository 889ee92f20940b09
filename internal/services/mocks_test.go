package services

import (
	"context"
	"io"
	"time"

	"opsmanual/internal/models"
	"opsmanual/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, id, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash, passwordHash, now)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter repositories.UserFilter) ([]*models.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) CountByAirline(ctx context.Context, airlineID uuid.UUID) (int, error) {
	args := m.Called(ctx, airlineID)
	return args.Int(0), args.Error(1)
}

type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) GetWithUser(ctx context.Context, tokenHash string) (*models.RefreshToken, *models.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.RefreshToken), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockRefreshTokenRepository) DeleteByHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockAirlineRepository struct {
	mock.Mock
}

func (m *MockAirlineRepository) Create(ctx context.Context, airline *models.Airline) error {
	args := m.Called(ctx, airline)
	return args.Error(0)
}

func (m *MockAirlineRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Airline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Airline), args.Error(1)
}

func (m *MockAirlineRepository) GetByCode(ctx context.Context, code string) (*models.Airline, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Airline), args.Error(1)
}

func (m *MockAirlineRepository) Update(ctx context.Context, airline *models.Airline) error {
	args := m.Called(ctx, airline)
	return args.Error(0)
}

func (m *MockAirlineRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockAirlineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAirlineRepository) List(ctx context.Context, includeInactive bool) ([]*models.Airline, error) {
	args := m.Called(ctx, includeInactive)
	return args.Get(0).([]*models.Airline), args.Error(1)
}

type MockChapterRepository struct {
	mock.Mock
}

func (m *MockChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	args := m.Called(ctx, chapter)
	return args.Error(0)
}

func (m *MockChapterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Chapter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chapter), args.Error(1)
}

func (m *MockChapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	args := m.Called(ctx, chapter)
	return args.Error(0)
}

func (m *MockChapterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChapterRepository) List(ctx context.Context, airlineID *uuid.UUID, includeInactive bool) ([]*models.Chapter, error) {
	args := m.Called(ctx, airlineID, includeInactive)
	return args.Get(0).([]*models.Chapter), args.Error(1)
}

func (m *MockChapterRepository) NextOrder(ctx context.Context, airlineID uuid.UUID) (int, error) {
	args := m.Called(ctx, airlineID)
	return args.Int(0), args.Error(1)
}

type MockSectionRepository struct {
	mock.Mock
}

func (m *MockSectionRepository) Create(ctx context.Context, section *models.Section) error {
	args := m.Called(ctx, section)
	return args.Error(0)
}

func (m *MockSectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Section), args.Error(1)
}

func (m *MockSectionRepository) Update(ctx context.Context, section *models.Section) error {
	args := m.Called(ctx, section)
	return args.Error(0)
}

func (m *MockSectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSectionRepository) ListByChapter(ctx context.Context, chapterID uuid.UUID, includeInactive bool) ([]*models.Section, error) {
	args := m.Called(ctx, chapterID, includeInactive)
	return args.Get(0).([]*models.Section), args.Error(1)
}

func (m *MockSectionRepository) NextOrder(ctx context.Context, chapterID uuid.UUID) (int, error) {
	args := m.Called(ctx, chapterID)
	return args.Int(0), args.Error(1)
}

type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) Create(ctx context.Context, content *models.Content) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockContentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}

func (m *MockContentRepository) Update(ctx context.Context, content *models.Content) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockContentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContentRepository) ListBySection(ctx context.Context, sectionID uuid.UUID, includeInactive bool) ([]*models.Content, error) {
	args := m.Called(ctx, sectionID, includeInactive)
	return args.Get(0).([]*models.Content), args.Error(1)
}

func (m *MockContentRepository) NextOrder(ctx context.Context, sectionID uuid.UUID) (int, error) {
	args := m.Called(ctx, sectionID)
	return args.Int(0), args.Error(1)
}

type MockContactGroupRepository struct {
	mock.Mock
}

func (m *MockContactGroupRepository) Create(ctx context.Context, group *models.ContactGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockContactGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactGroup), args.Error(1)
}

func (m *MockContactGroupRepository) Update(ctx context.Context, group *models.ContactGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockContactGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContactGroupRepository) List(ctx context.Context, airlineID *uuid.UUID, includeInactive bool) ([]*models.ContactGroup, error) {
	args := m.Called(ctx, airlineID, includeInactive)
	return args.Get(0).([]*models.ContactGroup), args.Error(1)
}

func (m *MockContactGroupRepository) NextOrder(ctx context.Context, airlineID uuid.UUID) (int, error) {
	args := m.Called(ctx, airlineID)
	return args.Int(0), args.Error(1)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contact), args.Error(1)
}

func (m *MockContactRepository) Update(ctx context.Context, contact *models.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContactRepository) ListByGroup(ctx context.Context, groupID uuid.UUID, includeInactive bool) ([]*models.Contact, error) {
	args := m.Called(ctx, groupID, includeInactive)
	return args.Get(0).([]*models.Contact), args.Error(1)
}

func (m *MockContactRepository) NextOrder(ctx context.Context, groupID uuid.UUID) (int, error) {
	args := m.Called(ctx, groupID)
	return args.Int(0), args.Error(1)
}

type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) SearchChapters(ctx context.Context, q repositories.SearchQuery) ([]*models.SearchResult, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]*models.SearchResult), args.Error(1)
}

func (m *MockSearchRepository) SearchSections(ctx context.Context, q repositories.SearchQuery) ([]*models.SearchResult, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]*models.SearchResult), args.Error(1)
}

func (m *MockSearchRepository) SearchContents(ctx context.Context, q repositories.SearchQuery) ([]*models.SearchResult, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]*models.SearchResult), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendPasswordReset(ctx context.Context, msg *models.PasswordResetMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockNotificationService) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetAirline(ctx context.Context, airlineID uuid.UUID) (*models.Airline, error) {
	args := m.Called(ctx, airlineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Airline), args.Error(1)
}

func (m *MockCacheService) SetAirline(ctx context.Context, airline *models.Airline) error {
	args := m.Called(ctx, airline)
	return args.Error(0)
}

func (m *MockCacheService) DeleteAirline(ctx context.Context, airlineID uuid.UUID) error {
	args := m.Called(ctx, airlineID)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) UploadLogo(ctx context.Context, airlineID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error) {
	args := m.Called(ctx, airlineID, filename, contentType, reader, size)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStorageService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func identityFor(role models.Role, airlineID *uuid.UUID) *models.Identity {
	return &models.Identity{UserID: uuid.New(), Email: "actor@example.com", Role: role, AirlineID: airlineID}
}

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }
