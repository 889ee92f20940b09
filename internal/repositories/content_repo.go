package repositories

import (
	"context"

	"opsmanual/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ContentRepository interface {
	Create(ctx context.Context, content *models.Content) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Content, error)
	Update(ctx context.Context, content *models.Content) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySection(ctx context.Context, sectionID uuid.UUID, includeInactive bool) ([]*models.Content, error)
	NextOrder(ctx context.Context, sectionID uuid.UUID) (int, error)
}

type contentRepo struct {
	db DBTX
}

func NewContentRepo(db DBTX) ContentRepository {
	return &contentRepo{db: db}
}

const contentSelect = `
	SELECT m.id, m.section_id, m.title, m.body, m.content_type, m.sort_order, m.metadata, m.is_active,
		m.created_at, m.updated_at, s.chapter_id, c.airline_id
	FROM contents m
	JOIN sections s ON s.id = m.section_id
	JOIN chapters c ON c.id = s.chapter_id
`

func scanContent(row pgx.Row) (*models.Content, error) {
	content := &models.Content{}
	var contentType string
	err := row.Scan(&content.ID, &content.SectionID, &content.Title, &content.Body, &contentType, &content.Order,
		&content.Metadata, &content.IsActive, &content.CreatedAt, &content.UpdatedAt, &content.ChapterID, &content.AirlineID)
	if err != nil {
		return nil, err
	}
	content.ContentType = models.ContentType(contentType)
	return content, nil
}

func (r *contentRepo) Create(ctx context.Context, content *models.Content) error {
	query := `
		INSERT INTO contents (id, section_id, title, body, content_type, sort_order, metadata, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, content.ID, content.SectionID, content.Title, content.Body,
		string(content.ContentType), content.Order, content.Metadata, content.IsActive)
	return mapError(err)
}

// GetByID resolves the content together with its section's chapter and airline.
func (r *contentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	content, err := scanContent(r.db.QueryRow(ctx, contentSelect+` WHERE m.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return content, nil
}

func (r *contentRepo) Update(ctx context.Context, content *models.Content) error {
	query := `
		UPDATE contents
		SET title = $1, body = $2, content_type = $3, sort_order = $4, metadata = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
	`
	return requireAffected(r.db.Exec(ctx, query, content.Title, content.Body, string(content.ContentType),
		content.Order, content.Metadata, content.IsActive, content.ID))
}

func (r *contentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM contents WHERE id = $1`, id))
}

func (r *contentRepo) ListBySection(ctx context.Context, sectionID uuid.UUID, includeInactive bool) ([]*models.Content, error) {
	query := contentSelect + `
		WHERE m.section_id = $1 AND ($2 OR m.is_active)
		ORDER BY m.sort_order ASC, m.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, sectionID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contents []*models.Content
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}
	return contents, rows.Err()
}

func (r *contentRepo) NextOrder(ctx context.Context, sectionID uuid.UUID) (int, error) {
	var next int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(sort_order), 0) + 1 FROM contents WHERE section_id = $1`, sectionID).Scan(&next)
	return next, err
}
