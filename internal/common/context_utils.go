package common

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"opsmanual/internal/models"

	"github.com/google/uuid"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
)

// WithIdentity returns a copy of ctx carrying the authenticated identity.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentityFromContext extracts the authenticated identity from the request context
func GetIdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*models.Identity)
	return identity, ok && identity != nil
}

// ValidateUUID validates UUID format
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewValidationError(fieldName, fmt.Sprintf("%s is required", fieldName))
	}
	if len(idStr) != 36 {
		return uuid.Nil, NewValidationError(fieldName, fmt.Sprintf("%s must be a UUID", fieldName))
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewValidationError(fieldName, fmt.Sprintf("%s must be a UUID", fieldName))
	}
	return id, nil
}

// ParseOptionalUUID parses an optional id; an empty string yields nil.
func ParseOptionalUUID(idStr string, fieldName string) (*uuid.UUID, error) {
	if strings.TrimSpace(idStr) == "" {
		return nil, nil
	}
	id, err := ValidateUUID(idStr, fieldName)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(fieldName, fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}

// ValidateEmail validates an email address and returns it lowercased.
func ValidateEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", NewValidationError("email", "Valid email is required")
	}
	return email, nil
}

// ValidatePassword enforces a minimum password length.
func ValidatePassword(password, fieldName string, minLength int) error {
	if len(password) < minLength {
		return NewValidationError(fieldName, fmt.Sprintf("%s must be at least %d characters", fieldName, minLength))
	}
	return nil
}

// TrimOptional returns a trimmed copy of value, turning blanks into nil.
func TrimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

const maxSearchTermRunes = 100

// EscapeLikePattern escapes LIKE wildcards so the term matches literally.
// Terms are cut to maxSearchTermRunes characters.
func EscapeLikePattern(query string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	query = strings.TrimSpace(query)
	if runes := []rune(query); len(runes) > maxSearchTermRunes {
		query = string(runes[:maxSearchTermRunes])
	}
	return replacer.Replace(query)
}

// ValidatePaginationParams validates pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
