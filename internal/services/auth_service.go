package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"opsmanual/internal/common"
	"opsmanual/internal/metrics"
	"opsmanual/internal/models"
	"opsmanual/internal/repositories"
	"opsmanual/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuthService handles login, refresh-token sessions and password resets.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	// ResolveIdentity loads the live identity behind an access token subject.
	ResolveIdentity(ctx context.Context, userID uuid.UUID) (*models.Identity, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	PurgeExpiredCredentials(ctx context.Context) (tokens, resets int64, err error)
}

// AuthConfig holds the reset-flow settings of the auth service.
type AuthConfig struct {
	ResetTokenTTL time.Duration
	ResetURLBase  string
}

const (
	resetTokenBytes      = 32
	resetDispatchTimeout = 15 * time.Second
)

type authService struct {
	users         repositories.UserRepository
	refreshTokens repositories.RefreshTokenRepository
	hasher        PasswordHasher
	tokens        TokenService
	notifier      NotificationService
	cfg           AuthConfig
	now           func() time.Time

	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users repositories.UserRepository,
	refreshTokens repositories.RefreshTokenRepository,
	hasher PasswordHasher,
	tokens TokenService,
	notifier NotificationService,
	cfg AuthConfig,
) AuthService {
	dummy, _ := hasher.Hash("opsmanual-dummy-password")
	return &authService{
		users:         users,
		refreshTokens: refreshTokens,
		hasher:        hasher,
		tokens:        tokens,
		notifier:      notifier,
		cfg:           cfg,
		now:           time.Now,
		dummyHash:     dummy,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			metrics.ObserveAuth("login", "invalid_credentials")
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.NewInternalError("Failed to load user", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) || !user.IsActive {
		metrics.ObserveAuth("login", "invalid_credentials")
		logger.Log.WithFields(logrus.Fields{"event": "login.rejected", "user_id": user.ID}).Info("login rejected")
		return nil, common.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, common.NewInternalError("Failed to record login", err)
	}
	user.LastLogin = &now

	accessToken, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, common.NewInternalError("Failed to issue access token", err)
	}
	refreshToken, expiresAt, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, common.NewInternalError("Failed to issue refresh token", err)
	}

	record := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: expiresAt,
	}
	if err := s.refreshTokens.Create(ctx, record); err != nil {
		return nil, common.NewInternalError("Failed to store refresh token", err)
	}

	metrics.ObserveAuth("login", "success")
	logger.Log.WithFields(logrus.Fields{
		"event":      "login.success",
		"user_id":    user.ID,
		"airline_id": user.AirlineID,
	}).Info("user logged in")

	return &models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
		User:         user.Profile(),
	}, nil
}

// Refresh mints a new access token. The refresh token itself is not rotated
// and stays usable until it expires or is logged out.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.AccessTokenResponse, error) {
	claims, ok := s.tokens.VerifyRefresh(refreshToken)
	if !ok {
		metrics.ObserveAuth("refresh", "invalid_signature")
		return nil, common.ErrInvalidRefreshToken
	}
	subject, _ := claims.UserID()

	record, user, err := s.refreshTokens.GetWithUser(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			metrics.ObserveAuth("refresh", "revoked")
			return nil, common.ErrInvalidRefreshToken
		}
		return nil, common.NewInternalError("Failed to load refresh token", err)
	}

	if !record.ExpiresAt.After(s.now()) || record.UserID != subject {
		metrics.ObserveAuth("refresh", "expired")
		return nil, common.ErrInvalidRefreshToken
	}
	if !user.IsActive {
		metrics.ObserveAuth("refresh", "inactive_user")
		return nil, common.ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, common.NewInternalError("Failed to issue access token", err)
	}

	metrics.ObserveAuth("refresh", "success")
	return &models.AccessTokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokens.AccessTTL().Seconds()),
		User:        user.Profile(),
	}, nil
}

// Logout revokes the persisted refresh token. Unknown tokens are ignored.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.refreshTokens.DeleteByHash(ctx, hashToken(refreshToken)); err != nil {
		return common.NewInternalError("Failed to revoke refresh token", err)
	}
	metrics.ObserveAuth("logout", "success")
	return nil
}

// RequestPasswordReset never reveals whether the address belongs to an
// active account.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			metrics.ObserveAuth("reset_request", "unknown")
			return nil
		}
		return common.NewInternalError("Failed to load user", err)
	}
	if !user.IsActive {
		metrics.ObserveAuth("reset_request", "inactive")
		return nil
	}

	token, err := generateSecureToken()
	if err != nil {
		return common.NewInternalError("Failed to generate reset token", err)
	}
	now := s.now()
	expiresAt := now.Add(s.cfg.ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, hashToken(token), expiresAt); err != nil {
		return common.NewInternalError("Failed to store reset token", err)
	}

	resetURL, err := BuildResetURL(s.cfg.ResetURLBase, token)
	if err != nil {
		return common.NewInternalError("Failed to build reset link", err)
	}
	msg := &models.PasswordResetMessage{
		UserID:      user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		ResetURL:    resetURL,
		ExpiresAt:   expiresAt,
		RequestedAt: now,
	}
	s.dispatchReset(ctx, msg)

	metrics.ObserveAuth("reset_request", "issued")
	return nil
}

// dispatchReset hands msg to the notifier off the request path. The response
// time of a reset request must not depend on the broker.
func (s *authService) dispatchReset(ctx context.Context, msg *models.PasswordResetMessage) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resetDispatchTimeout)
	go func() {
		defer cancel()
		if err := s.notifier.SendPasswordReset(sendCtx, msg); err != nil {
			logger.Log.WithError(err).WithField("user_id", msg.UserID).Warn("failed to dispatch password reset mail")
		}
	}()
}

// ResetPassword consumes a reset token and revokes every session of its owner.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return common.ErrInvalidOrExpiredToken
	}
	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return common.NewInternalError("Failed to hash password", err)
	}

	userID, err := s.users.ResetPassword(ctx, hashToken(token), passwordHash, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			metrics.ObserveAuth("reset", "invalid_token")
			return common.ErrInvalidOrExpiredToken
		}
		return common.NewInternalError("Failed to reset password", err)
	}

	metrics.ObserveAuth("reset", "success")
	logger.Log.WithFields(logrus.Fields{"event": "password.reset", "user_id": userID}).Info("password reset; sessions revoked")
	return nil
}

func (s *authService) ResolveIdentity(ctx context.Context, userID uuid.UUID) (*models.Identity, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, common.NewInternalError("Failed to load user", err)
	}
	if !user.IsActive {
		return nil, common.NewUnauthenticatedError("User account is inactive")
	}
	return models.NewIdentity(user), nil
}

func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("User")
		}
		return nil, common.NewInternalError("Failed to load user", err)
	}
	return user.Profile(), nil
}

// PurgeExpiredCredentials removes expired refresh tokens and clears lapsed
// reset tokens.
func (s *authService) PurgeExpiredCredentials(ctx context.Context) (int64, int64, error) {
	now := s.now()
	tokens, err := s.refreshTokens.DeleteExpired(ctx, now)
	if err != nil {
		return 0, 0, fmt.Errorf("purge refresh tokens: %w", err)
	}
	resets, err := s.users.ClearExpiredResetTokens(ctx, now)
	if err != nil {
		return tokens, 0, fmt.Errorf("clear reset tokens: %w", err)
	}
	return tokens, resets, nil
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// hashToken returns the hex SHA-256 digest under which tokens are stored.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
