package repositories

import (
	"context"

	"opsmanual/internal/models"

	"github.com/google/uuid"
)

type ChapterRepository interface {
	Create(ctx context.Context, chapter *models.Chapter) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Chapter, error)
	Update(ctx context.Context, chapter *models.Chapter) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, airlineID *uuid.UUID, includeInactive bool) ([]*models.Chapter, error)
	NextOrder(ctx context.Context, airlineID uuid.UUID) (int, error)
}

type chapterRepo struct {
	db DBTX
}

func NewChapterRepo(db DBTX) ChapterRepository {
	return &chapterRepo{db: db}
}

const chapterColumns = `id, airline_id, title, description, sort_order, is_active, created_at, updated_at`

func (r *chapterRepo) Create(ctx context.Context, chapter *models.Chapter) error {
	query := `
		INSERT INTO chapters (id, airline_id, title, description, sort_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, chapter.ID, chapter.AirlineID, chapter.Title, chapter.Description, chapter.Order, chapter.IsActive)
	return mapError(err)
}

func (r *chapterRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Chapter, error) {
	chapter := &models.Chapter{}
	query := `SELECT ` + chapterColumns + ` FROM chapters WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&chapter.ID, &chapter.AirlineID, &chapter.Title, &chapter.Description,
		&chapter.Order, &chapter.IsActive, &chapter.CreatedAt, &chapter.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return chapter, nil
}

func (r *chapterRepo) Update(ctx context.Context, chapter *models.Chapter) error {
	query := `
		UPDATE chapters
		SET title = $1, description = $2, sort_order = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
	`
	return requireAffected(r.db.Exec(ctx, query, chapter.Title, chapter.Description, chapter.Order, chapter.IsActive, chapter.ID))
}

func (r *chapterRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM chapters WHERE id = $1`, id))
}

// List returns chapters ordered for display. A nil airlineID lists every tenant.
func (r *chapterRepo) List(ctx context.Context, airlineID *uuid.UUID, includeInactive bool) ([]*models.Chapter, error) {
	query := `
		SELECT ` + chapterColumns + `
		FROM chapters
		WHERE ($1::uuid IS NULL OR airline_id = $1) AND ($2 OR is_active)
		ORDER BY sort_order ASC, created_at ASC
	`
	rows, err := r.db.Query(ctx, query, airlineID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []*models.Chapter
	for rows.Next() {
		chapter := &models.Chapter{}
		if err := rows.Scan(&chapter.ID, &chapter.AirlineID, &chapter.Title, &chapter.Description,
			&chapter.Order, &chapter.IsActive, &chapter.CreatedAt, &chapter.UpdatedAt); err != nil {
			return nil, err
		}
		chapters = append(chapters, chapter)
	}
	return chapters, rows.Err()
}

func (r *chapterRepo) NextOrder(ctx context.Context, airlineID uuid.UUID) (int, error) {
	var next int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(sort_order), 0) + 1 FROM chapters WHERE airline_id = $1`, airlineID).Scan(&next)
	return next, err
}
