package repositories

import (
	"context"
	"time"

	"opsmanual/internal/models"

	"github.com/google/uuid"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetWithUser(ctx context.Context, tokenHash string) (*models.RefreshToken, *models.User, error)
	DeleteByHash(ctx context.Context, tokenHash string) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type refreshTokenRepo struct {
	db DBTX
}

func NewRefreshTokenRepo(db DBTX) RefreshTokenRepository {
	return &refreshTokenRepo{db: db}
}

func (r *refreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, token.ID, token.UserID, token.TokenHash, token.ExpiresAt)
	return mapError(err)
}

// GetWithUser loads the persisted token and its owner in a single statement so
// both are read from the same snapshot.
func (r *refreshTokenRepo) GetWithUser(ctx context.Context, tokenHash string) (*models.RefreshToken, *models.User, error) {
	query := `
		SELECT t.id, t.user_id, t.token_hash, t.expires_at, t.created_at,
			u.id, u.email, u.password_hash, u.first_name, u.last_name, u.role, u.is_active,
			u.airline_id, u.reset_token_hash, u.reset_token_expiry, u.last_login, u.created_at, u.updated_at,
			a.code, a.name, a.branding, a.is_active
		FROM refresh_tokens t
		JOIN users u ON u.id = t.user_id
		LEFT JOIN airlines a ON a.id = u.airline_id
		WHERE t.token_hash = $1
	`
	token := &models.RefreshToken{}
	var owner userRow
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		append([]any{&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.CreatedAt}, owner.dest()...)...)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return token, owner.user(), nil
}

func (r *refreshTokenRepo) DeleteByHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	return err
}

func (r *refreshTokenRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *refreshTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
