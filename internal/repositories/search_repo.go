package repositories

import (
	"context"

	"opsmanual/internal/models"

	"github.com/google/uuid"
)

// SearchQuery scopes a manual search. Pattern is an ILIKE pattern; nil ids
// leave that dimension unrestricted.
type SearchQuery struct {
	Pattern   string
	AirlineID *uuid.UUID
	ChapterID *uuid.UUID
	Limit     int
}

// SearchRepository finds active manual nodes. Each hit carries relevance 3 for
// a title match and 2 for a description or body match.
type SearchRepository interface {
	SearchChapters(ctx context.Context, q SearchQuery) ([]*models.SearchResult, error)
	SearchSections(ctx context.Context, q SearchQuery) ([]*models.SearchResult, error)
	SearchContents(ctx context.Context, q SearchQuery) ([]*models.SearchResult, error)
}

type searchRepo struct {
	db DBTX
}

func NewSearchRepo(db DBTX) SearchRepository {
	return &searchRepo{db: db}
}

func (r *searchRepo) SearchChapters(ctx context.Context, q SearchQuery) ([]*models.SearchResult, error) {
	query := `
		SELECT c.id, c.title, COALESCE(c.description, ''), c.airline_id, c.sort_order,
			CASE WHEN c.title ILIKE $1 THEN 3 ELSE 2 END AS relevance
		FROM chapters c
		WHERE c.is_active
			AND ($2::uuid IS NULL OR c.airline_id = $2)
			AND ($3::uuid IS NULL OR c.id = $3)
			AND (c.title ILIKE $1 OR c.description ILIKE $1)
		ORDER BY relevance DESC, c.sort_order ASC
		LIMIT $4
	`
	rows, err := r.db.Query(ctx, query, q.Pattern, q.AirlineID, q.ChapterID, q.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.SearchResult
	for rows.Next() {
		res := &models.SearchResult{Type: models.SearchChapter}
		if err := rows.Scan(&res.ID, &res.Title, &res.Snippet, &res.AirlineID, &res.Order, &res.Relevance); err != nil {
			return nil, err
		}
		res.ChapterID = res.ID
		res.ChapterTitle = res.Title
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *searchRepo) SearchSections(ctx context.Context, q SearchQuery) ([]*models.SearchResult, error) {
	query := `
		SELECT s.id, s.title, COALESCE(s.description, ''), c.airline_id, c.id, c.title, s.sort_order,
			CASE WHEN s.title ILIKE $1 THEN 3 ELSE 2 END AS relevance
		FROM sections s
		JOIN chapters c ON c.id = s.chapter_id
		WHERE s.is_active AND c.is_active
			AND ($2::uuid IS NULL OR c.airline_id = $2)
			AND ($3::uuid IS NULL OR c.id = $3)
			AND (s.title ILIKE $1 OR s.description ILIKE $1)
		ORDER BY relevance DESC, s.sort_order ASC
		LIMIT $4
	`
	rows, err := r.db.Query(ctx, query, q.Pattern, q.AirlineID, q.ChapterID, q.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.SearchResult
	for rows.Next() {
		res := &models.SearchResult{Type: models.SearchSection}
		if err := rows.Scan(&res.ID, &res.Title, &res.Snippet, &res.AirlineID, &res.ChapterID, &res.ChapterTitle,
			&res.Order, &res.Relevance); err != nil {
			return nil, err
		}
		sectionID, sectionTitle := res.ID, res.Title
		res.SectionID = &sectionID
		res.SectionTitle = &sectionTitle
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *searchRepo) SearchContents(ctx context.Context, q SearchQuery) ([]*models.SearchResult, error) {
	query := `
		SELECT m.id, m.title, LEFT(m.body, 200), c.airline_id, c.id, c.title, s.id, s.title, m.sort_order,
			CASE WHEN m.title ILIKE $1 THEN 3 ELSE 2 END AS relevance
		FROM contents m
		JOIN sections s ON s.id = m.section_id
		JOIN chapters c ON c.id = s.chapter_id
		WHERE m.is_active AND s.is_active AND c.is_active
			AND ($2::uuid IS NULL OR c.airline_id = $2)
			AND ($3::uuid IS NULL OR c.id = $3)
			AND (m.title ILIKE $1 OR m.body ILIKE $1)
		ORDER BY relevance DESC, m.updated_at DESC
		LIMIT $4
	`
	rows, err := r.db.Query(ctx, query, q.Pattern, q.AirlineID, q.ChapterID, q.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.SearchResult
	for rows.Next() {
		res := &models.SearchResult{Type: models.SearchContent}
		var sectionID uuid.UUID
		var sectionTitle string
		if err := rows.Scan(&res.ID, &res.Title, &res.Snippet, &res.AirlineID, &res.ChapterID, &res.ChapterTitle,
			&sectionID, &sectionTitle, &res.Order, &res.Relevance); err != nil {
			return nil, err
		}
		res.SectionID = &sectionID
		res.SectionTitle = &sectionTitle
		results = append(results, res)
	}
	return results, rows.Err()
}
