package repositories

import (
	"context"

	"opsmanual/internal/models"

	"github.com/google/uuid"
)

type AirlineRepository interface {
	Create(ctx context.Context, airline *models.Airline) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Airline, error)
	GetByCode(ctx context.Context, code string) (*models.Airline, error)
	Update(ctx context.Context, airline *models.Airline) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, includeInactive bool) ([]*models.Airline, error)
}

type airlineRepo struct {
	db DBTX
}

func NewAirlineRepo(db DBTX) AirlineRepository {
	return &airlineRepo{db: db}
}

const airlineColumns = `id, code, name, branding, is_active, created_at, updated_at`

func (r *airlineRepo) Create(ctx context.Context, airline *models.Airline) error {
	query := `
		INSERT INTO airlines (id, code, name, branding, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, airline.ID, airline.Code, airline.Name, airline.Branding, airline.IsActive)
	return mapError(err)
}

func (r *airlineRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Airline, error) {
	airline := &models.Airline{}
	query := `SELECT ` + airlineColumns + ` FROM airlines WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&airline.ID, &airline.Code, &airline.Name, &airline.Branding,
		&airline.IsActive, &airline.CreatedAt, &airline.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return airline, nil
}

func (r *airlineRepo) GetByCode(ctx context.Context, code string) (*models.Airline, error) {
	airline := &models.Airline{}
	query := `SELECT ` + airlineColumns + ` FROM airlines WHERE code = $1`
	err := r.db.QueryRow(ctx, query, code).Scan(&airline.ID, &airline.Code, &airline.Name, &airline.Branding,
		&airline.IsActive, &airline.CreatedAt, &airline.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return airline, nil
}

func (r *airlineRepo) Update(ctx context.Context, airline *models.Airline) error {
	query := `
		UPDATE airlines
		SET code = $1, name = $2, branding = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
	`
	return requireAffected(r.db.Exec(ctx, query, airline.Code, airline.Name, airline.Branding, airline.IsActive, airline.ID))
}

func (r *airlineRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE airlines SET is_active = $1, updated_at = NOW() WHERE id = $2`
	return requireAffected(r.db.Exec(ctx, query, active, id))
}

func (r *airlineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM airlines WHERE id = $1`, id))
}

func (r *airlineRepo) List(ctx context.Context, includeInactive bool) ([]*models.Airline, error) {
	query := `
		SELECT ` + airlineColumns + `
		FROM airlines
		WHERE $1 OR is_active
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var airlines []*models.Airline
	for rows.Next() {
		airline := &models.Airline{}
		if err := rows.Scan(&airline.ID, &airline.Code, &airline.Name, &airline.Branding,
			&airline.IsActive, &airline.CreatedAt, &airline.UpdatedAt); err != nil {
			return nil, err
		}
		airlines = append(airlines, airline)
	}
	return airlines, rows.Err()
}
