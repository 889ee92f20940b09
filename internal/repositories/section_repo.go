package repositories

import (
	"context"

	"opsmanual/internal/models"

	"github.com/google/uuid"
)

type SectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Section, error)
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByChapter(ctx context.Context, chapterID uuid.UUID, includeInactive bool) ([]*models.Section, error)
	NextOrder(ctx context.Context, chapterID uuid.UUID) (int, error)
}

type sectionRepo struct {
	db DBTX
}

func NewSectionRepo(db DBTX) SectionRepository {
	return &sectionRepo{db: db}
}

const sectionSelect = `
	SELECT s.id, s.chapter_id, s.title, s.description, s.sort_order, s.is_active, s.created_at, s.updated_at, c.airline_id
	FROM sections s
	JOIN chapters c ON c.id = s.chapter_id
`

func (r *sectionRepo) Create(ctx context.Context, section *models.Section) error {
	query := `
		INSERT INTO sections (id, chapter_id, title, description, sort_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, section.ID, section.ChapterID, section.Title, section.Description, section.Order, section.IsActive)
	return mapError(err)
}

// GetByID resolves the section together with its chapter's airline.
func (r *sectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	section := &models.Section{}
	err := r.db.QueryRow(ctx, sectionSelect+` WHERE s.id = $1`, id).Scan(&section.ID, &section.ChapterID, &section.Title,
		&section.Description, &section.Order, &section.IsActive, &section.CreatedAt, &section.UpdatedAt, &section.AirlineID)
	if err != nil {
		return nil, mapError(err)
	}
	return section, nil
}

func (r *sectionRepo) Update(ctx context.Context, section *models.Section) error {
	query := `
		UPDATE sections
		SET title = $1, description = $2, sort_order = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
	`
	return requireAffected(r.db.Exec(ctx, query, section.Title, section.Description, section.Order, section.IsActive, section.ID))
}

func (r *sectionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id))
}

func (r *sectionRepo) ListByChapter(ctx context.Context, chapterID uuid.UUID, includeInactive bool) ([]*models.Section, error) {
	query := sectionSelect + `
		WHERE s.chapter_id = $1 AND ($2 OR s.is_active)
		ORDER BY s.sort_order ASC, s.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, chapterID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []*models.Section
	for rows.Next() {
		section := &models.Section{}
		if err := rows.Scan(&section.ID, &section.ChapterID, &section.Title, &section.Description, &section.Order,
			&section.IsActive, &section.CreatedAt, &section.UpdatedAt, &section.AirlineID); err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

func (r *sectionRepo) NextOrder(ctx context.Context, chapterID uuid.UUID) (int, error) {
	var next int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(sort_order), 0) + 1 FROM sections WHERE chapter_id = $1`, chapterID).Scan(&next)
	return next, err
}
