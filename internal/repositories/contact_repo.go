package repositories

import (
	"context"

	"opsmanual/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ContactGroupRepository interface {
	Create(ctx context.Context, group *models.ContactGroup) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ContactGroup, error)
	Update(ctx context.Context, group *models.ContactGroup) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, airlineID *uuid.UUID, includeInactive bool) ([]*models.ContactGroup, error)
	NextOrder(ctx context.Context, airlineID uuid.UUID) (int, error)
}

type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByGroup(ctx context.Context, groupID uuid.UUID, includeInactive bool) ([]*models.Contact, error)
	NextOrder(ctx context.Context, groupID uuid.UUID) (int, error)
}

type contactGroupRepo struct {
	db DBTX
}

func NewContactGroupRepo(db DBTX) ContactGroupRepository {
	return &contactGroupRepo{db: db}
}

const contactGroupSelect = `
	SELECT g.id, g.airline_id, g.name, g.description, g.sort_order, g.is_active, g.created_at, g.updated_at,
		(SELECT COUNT(*) FROM contacts c WHERE c.group_id = g.id)
	FROM contact_groups g
`

func scanContactGroup(row pgx.Row) (*models.ContactGroup, error) {
	group := &models.ContactGroup{}
	err := row.Scan(&group.ID, &group.AirlineID, &group.Name, &group.Description, &group.Order, &group.IsActive,
		&group.CreatedAt, &group.UpdatedAt, &group.ContactCount)
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (r *contactGroupRepo) Create(ctx context.Context, group *models.ContactGroup) error {
	query := `
		INSERT INTO contact_groups (id, airline_id, name, description, sort_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, group.ID, group.AirlineID, group.Name, group.Description, group.Order, group.IsActive)
	return mapError(err)
}

func (r *contactGroupRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactGroup, error) {
	group, err := scanContactGroup(r.db.QueryRow(ctx, contactGroupSelect+` WHERE g.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return group, nil
}

func (r *contactGroupRepo) Update(ctx context.Context, group *models.ContactGroup) error {
	query := `
		UPDATE contact_groups
		SET name = $1, description = $2, sort_order = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
	`
	return requireAffected(r.db.Exec(ctx, query, group.Name, group.Description, group.Order, group.IsActive, group.ID))
}

func (r *contactGroupRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM contact_groups WHERE id = $1`, id))
}

// List returns groups ordered for display. A nil airlineID lists every tenant.
func (r *contactGroupRepo) List(ctx context.Context, airlineID *uuid.UUID, includeInactive bool) ([]*models.ContactGroup, error) {
	query := contactGroupSelect + `
		WHERE ($1::uuid IS NULL OR g.airline_id = $1) AND ($2 OR g.is_active)
		ORDER BY g.sort_order ASC, g.name ASC
	`
	rows, err := r.db.Query(ctx, query, airlineID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*models.ContactGroup
	for rows.Next() {
		group, err := scanContactGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

func (r *contactGroupRepo) NextOrder(ctx context.Context, airlineID uuid.UUID) (int, error) {
	var next int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(sort_order), 0) + 1 FROM contact_groups WHERE airline_id = $1`, airlineID).Scan(&next)
	return next, err
}

type contactRepo struct {
	db DBTX
}

func NewContactRepo(db DBTX) ContactRepository {
	return &contactRepo{db: db}
}

const contactColumns = `id, group_id, airline_id, first_name, last_name, title, company, phone, email, timezone, avatar,
	sort_order, metadata, is_active, created_at, updated_at`

func scanContact(row pgx.Row) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(&c.ID, &c.GroupID, &c.AirlineID, &c.FirstName, &c.LastName, &c.Title, &c.Company, &c.Phone,
		&c.Email, &c.Timezone, &c.Avatar, &c.Order, &c.Metadata, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *contactRepo) Create(ctx context.Context, c *models.Contact) error {
	query := `
		INSERT INTO contacts (id, group_id, airline_id, first_name, last_name, title, company, phone, email, timezone,
			avatar, sort_order, metadata, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, c.ID, c.GroupID, c.AirlineID, c.FirstName, c.LastName, c.Title, c.Company, c.Phone,
		c.Email, c.Timezone, c.Avatar, c.Order, c.Metadata, c.IsActive)
	return mapError(err)
}

func (r *contactRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	c, err := scanContact(r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *contactRepo) Update(ctx context.Context, c *models.Contact) error {
	query := `
		UPDATE contacts
		SET group_id = $1, airline_id = $2, first_name = $3, last_name = $4, title = $5, company = $6, phone = $7,
			email = $8, timezone = $9, avatar = $10, sort_order = $11, metadata = $12, is_active = $13, updated_at = NOW()
		WHERE id = $14
	`
	return requireAffected(r.db.Exec(ctx, query, c.GroupID, c.AirlineID, c.FirstName, c.LastName, c.Title, c.Company,
		c.Phone, c.Email, c.Timezone, c.Avatar, c.Order, c.Metadata, c.IsActive, c.ID))
}

func (r *contactRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id))
}

func (r *contactRepo) ListByGroup(ctx context.Context, groupID uuid.UUID, includeInactive bool) ([]*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE group_id = $1 AND ($2 OR is_active)
		ORDER BY sort_order ASC, last_name ASC
	`
	rows, err := r.db.Query(ctx, query, groupID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *contactRepo) NextOrder(ctx context.Context, groupID uuid.UUID) (int, error) {
	var next int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(sort_order), 0) + 1 FROM contacts WHERE group_id = $1`, groupID).Scan(&next)
	return next, err
}
