package services

import (
	"errors"
	"fmt"
	"time"

	"opsmanual/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "opsmanual"

// AccessClaims is the payload of a short-lived access token. The subject is
// the user id.
type AccessClaims struct {
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	AirlineID *uuid.UUID  `json:"airline_id"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *AccessClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// RefreshClaims carries only the user id (subject) and a unique token id.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

func (c *RefreshClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TokenService signs and verifies access and refresh tokens. Verification
// never returns an error: any failure reports ok=false.
type TokenService interface {
	IssueAccess(user *models.User) (string, error)
	IssueRefresh(userID uuid.UUID) (token string, expiresAt time.Time, err error)
	VerifyAccess(token string) (*AccessClaims, bool)
	VerifyRefresh(token string) (*RefreshClaims, bool)
	AccessTTL() time.Duration
}

type tokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// TokenConfig holds the signing secrets and validity windows.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewTokenService(cfg TokenConfig) (TokenService, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("token secrets must be set")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	return &tokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}, nil
}

func (s *tokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *tokenService) IssueAccess(user *models.User) (string, error) {
	now := s.now()
	claims := AccessClaims{
		Email:     user.Email,
		Role:      user.Role,
		AirlineID: user.AirlineID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *tokenService) IssueRefresh(userID uuid.UUID) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.refreshTTL)
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	// Persisted expiry matches the signed one to the second.
	return signed, claims.ExpiresAt.Time, nil
}

func (s *tokenService) VerifyAccess(token string) (*AccessClaims, bool) {
	claims := &AccessClaims{}
	if !s.parse(token, claims, s.accessSecret) {
		return nil, false
	}
	if _, err := claims.UserID(); err != nil || !claims.Role.Valid() {
		return nil, false
	}
	return claims, true
}

func (s *tokenService) VerifyRefresh(token string) (*RefreshClaims, bool) {
	claims := &RefreshClaims{}
	if !s.parse(token, claims, s.refreshSecret) {
		return nil, false
	}
	if _, err := claims.UserID(); err != nil {
		return nil, false
	}
	return claims, true
}

func (s *tokenService) parse(token string, claims jwt.Claims, secret []byte) bool {
	if token == "" {
		return false
	}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	return err == nil && parsed.Valid
}
