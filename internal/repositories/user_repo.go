package repositories

import (
	"context"
	"fmt"
	"time"

	"opsmanual/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error
	ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (uuid.UUID, error)
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
	List(ctx context.Context, filter UserFilter) ([]*models.User, error)
	CountByAirline(ctx context.Context, airlineID uuid.UUID) (int, error)
}

// UserFilter narrows List. A nil AirlineID lists every tenant.
type UserFilter struct {
	AirlineID       *uuid.UUID
	IncludeInactive bool
	Limit           int
	Offset          int
}

type userRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) UserRepository {
	return &userRepo{db: db}
}

const userSelect = `
	SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.role, u.is_active,
		u.airline_id, u.reset_token_hash, u.reset_token_expiry, u.last_login, u.created_at, u.updated_at,
		a.code, a.name, a.branding, a.is_active
	FROM users u
	LEFT JOIN airlines a ON a.id = u.airline_id
`

// userRow holds the scan destinations of a userSelect row.
type userRow struct {
	u             models.User
	role          string
	airlineCode   *string
	airlineName   *string
	branding      map[string]any
	airlineActive *bool
}

func (s *userRow) dest() []any {
	return []any{&s.u.ID, &s.u.Email, &s.u.PasswordHash, &s.u.FirstName, &s.u.LastName, &s.role, &s.u.IsActive,
		&s.u.AirlineID, &s.u.ResetTokenHash, &s.u.ResetTokenExpiry, &s.u.LastLogin, &s.u.CreatedAt, &s.u.UpdatedAt,
		&s.airlineCode, &s.airlineName, &s.branding, &s.airlineActive}
}

// user converts the row, attaching the joined airline when present.
func (s *userRow) user() *models.User {
	user := s.u
	user.Role = models.Role(s.role)
	if user.AirlineID != nil && s.airlineCode != nil {
		user.Airline = &models.Airline{
			ID:       *user.AirlineID,
			Code:     *s.airlineCode,
			Name:     *s.airlineName,
			Branding: s.branding,
			IsActive: s.airlineActive != nil && *s.airlineActive,
		}
	}
	return &user
}

func scanUser(row pgx.Row) (*models.User, error) {
	var s userRow
	if err := row.Scan(s.dest()...); err != nil {
		return nil, err
	}
	return s.user(), nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, is_active, airline_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		string(user.Role), user.IsActive, user.AirlineID)
	return mapError(err)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, userSelect+` WHERE u.email = $1`, email))
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, role = $4, is_active = $5, airline_id = $6, updated_at = NOW()
		WHERE id = $7
	`
	return requireAffected(r.db.Exec(ctx, query, user.Email, user.FirstName, user.LastName, string(user.Role),
		user.IsActive, user.AirlineID, user.ID))
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	return requireAffected(r.db.Exec(ctx, query, passwordHash, id))
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE users SET last_login = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, at, id)
	return err
}

// SetResetToken overwrites any previous reset token for the user.
func (r *userRepo) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET reset_token_hash = $1, reset_token_expiry = $2, updated_at = NOW()
		WHERE id = $3
	`
	return requireAffected(r.db.Exec(ctx, query, tokenHash, expiresAt, id))
}

// ResetPassword consumes a live reset token in one transaction: the user row is
// locked, the password replaced, the token cleared and every refresh token of
// the user deleted. It returns ErrNotFound when no unexpired token matches.
func (r *userRepo) ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (uuid.UUID, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT id FROM users
		WHERE reset_token_hash = $1 AND reset_token_expiry > $2
		FOR UPDATE
	`, tokenHash, now).Scan(&userID)
	if err != nil {
		return uuid.Nil, mapError(err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, reset_token_hash = NULL, reset_token_expiry = NULL, updated_at = NOW()
		WHERE id = $2
	`, passwordHash, userID); err != nil {
		return uuid.Nil, fmt.Errorf("failed to update password: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return uuid.Nil, fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}

func (r *userRepo) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE users
		SET reset_token_hash = NULL, reset_token_expiry = NULL
		WHERE reset_token_expiry IS NOT NULL AND reset_token_expiry <= $1
	`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *userRepo) List(ctx context.Context, filter UserFilter) ([]*models.User, error) {
	query := userSelect + `
		WHERE ($1::uuid IS NULL OR u.airline_id = $1) AND ($2 OR u.is_active)
		ORDER BY u.created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, filter.AirlineID, filter.IncludeInactive, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepo) CountByAirline(ctx context.Context, airlineID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE airline_id = $1`, airlineID).Scan(&count)
	return count, err
}
