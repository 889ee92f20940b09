package services

import (
	"context"
	"strings"

	"opsmanual/internal/common"
	"opsmanual/internal/models"
	"opsmanual/internal/repositories"

	"github.com/google/uuid"
)

// ContactService manages the per-airline contact directory.
type ContactService interface {
	ListGroups(ctx context.Context, identity *models.Identity, airlineID *uuid.UUID, includeInactive bool) ([]*models.ContactGroup, error)
	GetGroup(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.ContactGroup, error)
	CreateGroup(ctx context.Context, identity *models.Identity, req *CreateContactGroupRequest) (*models.ContactGroup, error)
	UpdateGroup(ctx context.Context, identity *models.Identity, id uuid.UUID, req *UpdateContactGroupRequest) (*models.ContactGroup, error)
	DeleteGroup(ctx context.Context, identity *models.Identity, id uuid.UUID) error

	ListContacts(ctx context.Context, identity *models.Identity, groupID uuid.UUID, includeInactive bool) ([]*models.Contact, error)
	GetContact(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Contact, error)
	CreateContact(ctx context.Context, identity *models.Identity, req *ContactRequest) (*models.Contact, error)
	UpdateContact(ctx context.Context, identity *models.Identity, id uuid.UUID, req *UpdateContactRequest) (*models.Contact, error)
	DeleteContact(ctx context.Context, identity *models.Identity, id uuid.UUID) error
}

type CreateContactGroupRequest struct {
	AirlineID   *uuid.UUID `json:"airline_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Order       *int       `json:"order"`
	IsActive    *bool      `json:"is_active"`
}

type UpdateContactGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"is_active"`
}

type ContactRequest struct {
	GroupID   uuid.UUID      `json:"group_id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Title     *string        `json:"title"`
	Company   *string        `json:"company"`
	Phone     *string        `json:"phone"`
	Email     *string        `json:"email"`
	Timezone  *string        `json:"timezone"`
	Avatar    *string        `json:"avatar"`
	Order     *int           `json:"order"`
	Metadata  map[string]any `json:"metadata"`
	IsActive  *bool          `json:"is_active"`
}

type UpdateContactRequest struct {
	GroupID   *uuid.UUID     `json:"group_id"`
	FirstName *string        `json:"first_name"`
	LastName  *string        `json:"last_name"`
	Title     *string        `json:"title"`
	Company   *string        `json:"company"`
	Phone     *string        `json:"phone"`
	Email     *string        `json:"email"`
	Timezone  *string        `json:"timezone"`
	Avatar    *string        `json:"avatar"`
	Order     *int           `json:"order"`
	Metadata  map[string]any `json:"metadata"`
	IsActive  *bool          `json:"is_active"`
}

type contactService struct {
	groups   repositories.ContactGroupRepository
	contacts repositories.ContactRepository
}

func NewContactService(groups repositories.ContactGroupRepository, contacts repositories.ContactRepository) ContactService {
	return &contactService{groups: groups, contacts: contacts}
}

func (s *contactService) ListGroups(ctx context.Context, identity *models.Identity, airlineID *uuid.UUID, includeInactive bool) ([]*models.ContactGroup, error) {
	scope, err := EffectiveAirlineID(identity, airlineID)
	if err != nil {
		return nil, err
	}
	groups, err := s.groups.List(ctx, scope, includeInactive)
	if err != nil {
		return nil, common.NewInternalError("Failed to list contact groups", err)
	}
	if groups == nil {
		groups = []*models.ContactGroup{}
	}
	return groups, nil
}

func (s *contactService) GetGroup(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.ContactGroup, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("Contact group", err)
	}
	if err := CheckAirlineAccess(identity, group.AirlineID); err != nil {
		return nil, err
	}
	return group, nil
}

func requiredName(value, field string) (string, error) {
	value = strings.TrimSpace(value)
	if err := common.ValidateRequiredString(value, field); err != nil {
		return "", err
	}
	return value, nil
}

func (s *contactService) CreateGroup(ctx context.Context, identity *models.Identity, req *CreateContactGroupRequest) (*models.ContactGroup, error) {
	airlineID, err := RequireAirlineID(identity, req.AirlineID)
	if err != nil {
		return nil, err
	}
	name, err := requiredName(req.Name, "name")
	if err != nil {
		return nil, err
	}
	if err := validOrder(req.Order); err != nil {
		return nil, err
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	} else if order, err = s.groups.NextOrder(ctx, airlineID); err != nil {
		return nil, common.NewInternalError("Failed to compute group order", err)
	}

	group := &models.ContactGroup{
		ID:          uuid.New(),
		AirlineID:   airlineID,
		Name:        name,
		Description: common.TrimOptional(req.Description),
		Order:       order,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, writeError("Contact group", err)
	}
	saved, err := s.groups.GetByID(ctx, group.ID)
	if err != nil {
		return nil, lookupError("Contact group", err)
	}
	return saved, nil
}

func (s *contactService) UpdateGroup(ctx context.Context, identity *models.Identity, id uuid.UUID, req *UpdateContactGroupRequest) (*models.ContactGroup, error) {
	group, err := s.GetGroup(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if group.Name, err = requiredName(*req.Name, "name"); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		group.Description = common.TrimOptional(req.Description)
	}
	if err := validOrder(req.Order); err != nil {
		return nil, err
	}
	if req.Order != nil {
		group.Order = *req.Order
	}
	if req.IsActive != nil {
		group.IsActive = *req.IsActive
	}
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, writeError("Contact group", err)
	}
	saved, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("Contact group", err)
	}
	return saved, nil
}

// DeleteGroup refuses to remove a group that still has contacts.
func (s *contactService) DeleteGroup(ctx context.Context, identity *models.Identity, id uuid.UUID) error {
	group, err := s.GetGroup(ctx, identity, id)
	if err != nil {
		return err
	}
	if group.ContactCount > 0 {
		return common.NewConflictError("Cannot delete contact group with existing contacts")
	}
	if err := s.groups.Delete(ctx, id); err != nil {
		return writeError("Contact group", err)
	}
	return nil
}

func (s *contactService) ListContacts(ctx context.Context, identity *models.Identity, groupID uuid.UUID, includeInactive bool) ([]*models.Contact, error) {
	if _, err := s.GetGroup(ctx, identity, groupID); err != nil {
		return nil, err
	}
	contacts, err := s.contacts.ListByGroup(ctx, groupID, includeInactive)
	if err != nil {
		return nil, common.NewInternalError("Failed to list contacts", err)
	}
	if contacts == nil {
		contacts = []*models.Contact{}
	}
	return contacts, nil
}

func (s *contactService) GetContact(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Contact, error) {
	contact, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("Contact", err)
	}
	if err := CheckAirlineAccess(identity, contact.AirlineID); err != nil {
		return nil, err
	}
	return contact, nil
}

func optionalEmail(value *string) (*string, error) {
	value = common.TrimOptional(value)
	if value == nil {
		return nil, nil
	}
	email, err := common.ValidateEmail(*value)
	if err != nil {
		return nil, err
	}
	return &email, nil
}

// CreateContact places the contact in its group's airline.
func (s *contactService) CreateContact(ctx context.Context, identity *models.Identity, req *ContactRequest) (*models.Contact, error) {
	if req.GroupID == uuid.Nil {
		return nil, common.NewValidationError("group_id", "group_id is required")
	}
	group, err := s.GetGroup(ctx, identity, req.GroupID)
	if err != nil {
		return nil, err
	}
	firstName, err := requiredName(req.FirstName, "first_name")
	if err != nil {
		return nil, err
	}
	lastName, err := requiredName(req.LastName, "last_name")
	if err != nil {
		return nil, err
	}
	email, err := optionalEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := validOrder(req.Order); err != nil {
		return nil, err
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	} else if order, err = s.contacts.NextOrder(ctx, group.ID); err != nil {
		return nil, common.NewInternalError("Failed to compute contact order", err)
	}

	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	contact := &models.Contact{
		ID:        uuid.New(),
		GroupID:   group.ID,
		AirlineID: group.AirlineID,
		FirstName: firstName,
		LastName:  lastName,
		Title:     common.TrimOptional(req.Title),
		Company:   common.TrimOptional(req.Company),
		Phone:     common.TrimOptional(req.Phone),
		Email:     email,
		Timezone:  common.TrimOptional(req.Timezone),
		Avatar:    common.TrimOptional(req.Avatar),
		Order:     order,
		Metadata:  metadata,
		IsActive:  req.IsActive == nil || *req.IsActive,
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, writeError("Contact", err)
	}
	saved, err := s.contacts.GetByID(ctx, contact.ID)
	if err != nil {
		return nil, lookupError("Contact", err)
	}
	return saved, nil
}

func (s *contactService) UpdateContact(ctx context.Context, identity *models.Identity, id uuid.UUID, req *UpdateContactRequest) (*models.Contact, error) {
	contact, err := s.GetContact(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if req.GroupID != nil && *req.GroupID != contact.GroupID {
		group, err := s.GetGroup(ctx, identity, *req.GroupID)
		if err != nil {
			return nil, err
		}
		if group.AirlineID != contact.AirlineID {
			return nil, common.NewForbiddenError("Contacts cannot move between airlines")
		}
		contact.GroupID = group.ID
	}
	if req.FirstName != nil {
		if contact.FirstName, err = requiredName(*req.FirstName, "first_name"); err != nil {
			return nil, err
		}
	}
	if req.LastName != nil {
		if contact.LastName, err = requiredName(*req.LastName, "last_name"); err != nil {
			return nil, err
		}
	}
	if req.Title != nil {
		contact.Title = common.TrimOptional(req.Title)
	}
	if req.Company != nil {
		contact.Company = common.TrimOptional(req.Company)
	}
	if req.Phone != nil {
		contact.Phone = common.TrimOptional(req.Phone)
	}
	if req.Email != nil {
		if contact.Email, err = optionalEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.Timezone != nil {
		contact.Timezone = common.TrimOptional(req.Timezone)
	}
	if req.Avatar != nil {
		contact.Avatar = common.TrimOptional(req.Avatar)
	}
	if err := validOrder(req.Order); err != nil {
		return nil, err
	}
	if req.Order != nil {
		contact.Order = *req.Order
	}
	if req.Metadata != nil {
		contact.Metadata = req.Metadata
	}
	if req.IsActive != nil {
		contact.IsActive = *req.IsActive
	}

	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, writeError("Contact", err)
	}
	saved, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("Contact", err)
	}
	return saved, nil
}

func (s *contactService) DeleteContact(ctx context.Context, identity *models.Identity, id uuid.UUID) error {
	if _, err := s.GetContact(ctx, identity, id); err != nil {
		return err
	}
	if err := s.contacts.Delete(ctx, id); err != nil {
		return writeError("Contact", err)
	}
	return nil
}
