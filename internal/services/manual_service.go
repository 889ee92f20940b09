package services

import (
	"context"
	"errors"
	"strings"

	"opsmanual/internal/common"
	"opsmanual/internal/models"
	"opsmanual/internal/repositories"

	"github.com/google/uuid"
)

// ManualService manages the chapter, section and content tree of an
// airline's operations manual. Every lookup by id resolves the owning
// airline and checks it against the caller before the node is returned or
// changed.
type ManualService interface {
	ListChapters(ctx context.Context, identity *models.Identity, airlineID *uuid.UUID, includeInactive bool) ([]*models.Chapter, error)
	GetChapter(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Chapter, error)
	CreateChapter(ctx context.Context, identity *models.Identity, req *CreateChapterRequest) (*models.Chapter, error)
	UpdateChapter(ctx context.Context, identity *models.Identity, id uuid.UUID, req *UpdateNodeRequest) (*models.Chapter, error)
	DeleteChapter(ctx context.Context, identity *models.Identity, id uuid.UUID) error

	ListSections(ctx context.Context, identity *models.Identity, chapterID uuid.UUID, includeInactive bool) ([]*models.Section, error)
	GetSection(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Section, error)
	CreateSection(ctx context.Context, identity *models.Identity, chapterID uuid.UUID, req *CreateSectionRequest) (*models.Section, error)
	UpdateSection(ctx context.Context, identity *models.Identity, id uuid.UUID, req *UpdateNodeRequest) (*models.Section, error)
	DeleteSection(ctx context.Context, identity *models.Identity, id uuid.UUID) error

	ListContents(ctx context.Context, identity *models.Identity, sectionID uuid.UUID, includeInactive bool) ([]*models.Content, error)
	GetContent(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Content, error)
	CreateContent(ctx context.Context, identity *models.Identity, sectionID uuid.UUID, req *CreateContentRequest) (*models.Content, error)
	UpdateContent(ctx context.Context, identity *models.Identity, id uuid.UUID, req *UpdateContentRequest) (*models.Content, error)
	DeleteContent(ctx context.Context, identity *models.Identity, id uuid.UUID) error
}

type CreateChapterRequest struct {
	AirlineID   *uuid.UUID `json:"airline_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Order       *int       `json:"order"`
	IsActive    *bool      `json:"is_active"`
}

type CreateSectionRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateNodeRequest updates a chapter or section; nil fields are unchanged.
type UpdateNodeRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"is_active"`
}

type CreateContentRequest struct {
	Title       string         `json:"title"`
	Body        string         `json:"body"`
	ContentType string         `json:"content_type"`
	Order       *int           `json:"order"`
	Metadata    map[string]any `json:"metadata"`
	IsActive    *bool          `json:"is_active"`
}

type UpdateContentRequest struct {
	Title       *string        `json:"title"`
	Body        *string        `json:"body"`
	ContentType *string        `json:"content_type"`
	Order       *int           `json:"order"`
	Metadata    map[string]any `json:"metadata"`
	IsActive    *bool          `json:"is_active"`
}

type manualService struct {
	chapters repositories.ChapterRepository
	sections repositories.SectionRepository
	contents repositories.ContentRepository
}

func NewManualService(chapters repositories.ChapterRepository, sections repositories.SectionRepository, contents repositories.ContentRepository) ManualService {
	return &manualService{chapters: chapters, sections: sections, contents: contents}
}

// lookupError maps a repository failure on resource to an AppError.
func lookupError(resource string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return common.NewNotFoundError(resource)
	}
	return common.NewInternalError("Failed to load "+strings.ToLower(resource), err)
}

func writeError(resource string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return common.NewNotFoundError(resource)
	}
	if errors.Is(err, repositories.ErrConflict) {
		return common.NewConflictError(resource + " already exists")
	}
	return common.NewInternalError("Failed to save "+strings.ToLower(resource), err)
}

func requiredTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if err := common.ValidateRequiredString(title, "title"); err != nil {
		return "", err
	}
	return title, nil
}

func validOrder(order *int) error {
	if order != nil && *order < 0 {
		return common.NewValidationError("order", "order must not be negative")
	}
	return nil
}

func (s *manualService) ListChapters(ctx context.Context, identity *models.Identity, airlineID *uuid.UUID, includeInactive bool) ([]*models.Chapter, error) {
	scope, err := EffectiveAirlineID(identity, airlineID)
	if err != nil {
		return nil, err
	}
	chapters, err := s.chapters.List(ctx, scope, includeInactive)
	if err != nil {
		return nil, common.NewInternalError("Failed to list chapters", err)
	}
	if chapters == nil {
		chapters = []*models.Chapter{}
	}
	return chapters, nil
}

func (s *manualService) GetChapter(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Chapter, error) {
	chapter, err := s.chapters.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("Chapter", err)
	}
	if err := CheckAirlineAccess(identity, chapter.AirlineID); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *manualService) CreateChapter(ctx context.Context, identity *models.Identity, req *CreateChapterRequest) (*models.Chapter, error) {
	airlineID, err := RequireAirlineID(identity, req.AirlineID)
	if err != nil {
		return nil, err
	}
	title, err := requiredTitle(req.Title)
	if err != nil {
		return nil, err
	}
	if err := validOrder(req.Order); err != nil {
		return nil, err
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	} else if order, err = s.chapters.NextOrder(ctx, airlineID); err != nil {
		return nil, common.NewInternalError("Failed to compute chapter order", err)
	}

	chapter := &models.Chapter{
		ID:          uuid.New(),
		AirlineID:   airlineID,
		Title:       title,
		Description: common.TrimOptional(req.Description),
		Order:       order,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.chapters.Create(ctx, chapter); err != nil {
		return nil, writeError("Chapter", err)
	}
	saved, err := s.chapters.GetByID(ctx, chapter.ID)
	if err != nil {
		return nil, lookupError("Chapter", err)
	}
	return saved, nil
}

func (s *manualService) UpdateChapter(ctx context.Context, identity *models.Identity, id uuid.UUID, req *UpdateNodeRequest) (*models.Chapter, error) {
	chapter, err := s.GetChapter(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		if chapter.Title, err = requiredTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		chapter.Description = common.TrimOptional(req.Description)
	}
	if err := validOrder(req.Order); err != nil {
		return nil, err
	}
	if req.Order != nil {
		chapter.Order = *req.Order
	}
	if req.IsActive != nil {
		chapter.IsActive = *req.IsActive
	}
	if err := s.chapters.Update(ctx, chapter); err != nil {
		return nil, writeError("Chapter", err)
	}
	saved, err := s.chapters.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("Chapter", err)
	}
	return saved, nil
}

// DeleteChapter removes the chapter and, through the schema, its sections
// and contents.
func (s *manualService) DeleteChapter(ctx context.Context, identity *models.Identity, id uuid.UUID) error {
	if _, err := s.GetChapter(ctx, identity, id); err != nil {
		return err
	}
	if err := s.chapters.Delete(ctx, id); err != nil {
		return writeError("Chapter", err)
	}
	return nil
}

func (s *manualService) ListSections(ctx context.Context, identity *models.Identity, chapterID uuid.UUID, includeInactive bool) ([]*models.Section, error) {
	if _, err := s.GetChapter(ctx, identity, chapterID); err != nil {
		return nil, err
	}
	sections, err := s.sections.ListByChapter(ctx, chapterID, includeInactive)
	if err != nil {
		return nil, common.NewInternalError("Failed to list sections", err)
	}
	if sections == nil {
		sections = []*models.Section{}
	}
	return sections, nil
}

func (s *manualService) GetSection(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Section, error) {
	section, err := s.sections.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("Section", err)
	}
	if err := CheckAirlineAccess(identity, section.AirlineID); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *manualService) CreateSection(ctx context.Context, identity *models.Identity, chapterID uuid.UUID, req *CreateSectionRequest) (*models.Section, error) {
	if _, err := s.GetChapter(ctx, identity, chapterID); err != nil {
		return nil, err
	}
	title, err := requiredTitle(req.Title)
	if err != nil {
		return nil, err
	}
	if err := validOrder(req.Order); err != nil {
		return nil, err
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	} else if order, err = s.sections.NextOrder(ctx, chapterID); err != nil {
		return nil, common.NewInternalError("Failed to compute section order", err)
	}

	section := &models.Section{
		ID:          uuid.New(),
		ChapterID:   chapterID,
		Title:       title,
		Description: common.TrimOptional(req.Description),
		Order:       order,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.sections.Create(ctx, section); err != nil {
		return nil, writeError("Section", err)
	}
	saved, err := s.sections.GetByID(ctx, section.ID)
	if err != nil {
		return nil, lookupError("Section", err)
	}
	return saved, nil
}

func (s *manualService) UpdateSection(ctx context.Context, identity *models.Identity, id uuid.UUID, req *UpdateNodeRequest) (*models.Section, error) {
	section, err := s.GetSection(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		if section.Title, err = requiredTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		section.Description = common.TrimOptional(req.Description)
	}
	if err := validOrder(req.Order); err != nil {
		return nil, err
	}
	if req.Order != nil {
		section.Order = *req.Order
	}
	if req.IsActive != nil {
		section.IsActive = *req.IsActive
	}
	if err := s.sections.Update(ctx, section); err != nil {
		return nil, writeError("Section", err)
	}
	saved, err := s.sections.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("Section", err)
	}
	return saved, nil
}

func (s *manualService) DeleteSection(ctx context.Context, identity *models.Identity, id uuid.UUID) error {
	if _, err := s.GetSection(ctx, identity, id); err != nil {
		return err
	}
	if err := s.sections.Delete(ctx, id); err != nil {
		return writeError("Section", err)
	}
	return nil
}

func (s *manualService) ListContents(ctx context.Context, identity *models.Identity, sectionID uuid.UUID, includeInactive bool) ([]*models.Content, error) {
	if _, err := s.GetSection(ctx, identity, sectionID); err != nil {
		return nil, err
	}
	contents, err := s.contents.ListBySection(ctx, sectionID, includeInactive)
	if err != nil {
		return nil, common.NewInternalError("Failed to list contents", err)
	}
	if contents == nil {
		contents = []*models.Content{}
	}
	return contents, nil
}

func (s *manualService) GetContent(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Content, error) {
	content, err := s.contents.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("Content", err)
	}
	if err := CheckAirlineAccess(identity, content.AirlineID); err != nil {
		return nil, err
	}
	return content, nil
}

func parseContentType(value string) (models.ContentType, error) {
	contentType := models.ContentType(strings.ToUpper(strings.TrimSpace(value)))
	if !contentType.Valid() {
		return "", common.NewValidationError("content_type", "content_type must be one of TEXT, MARKDOWN, HTML, IMAGE, VIDEO, PDF, LINK")
	}
	return contentType, nil
}

func (s *manualService) CreateContent(ctx context.Context, identity *models.Identity, sectionID uuid.UUID, req *CreateContentRequest) (*models.Content, error) {
	if _, err := s.GetSection(ctx, identity, sectionID); err != nil {
		return nil, err
	}
	title, err := requiredTitle(req.Title)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, common.NewValidationError("body", "body is required")
	}
	contentType, err := parseContentType(req.ContentType)
	if err != nil {
		return nil, err
	}
	if err := validOrder(req.Order); err != nil {
		return nil, err
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	} else if order, err = s.contents.NextOrder(ctx, sectionID); err != nil {
		return nil, common.NewInternalError("Failed to compute content order", err)
	}

	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	content := &models.Content{
		ID:          uuid.New(),
		SectionID:   sectionID,
		Title:       title,
		Body:        req.Body,
		ContentType: contentType,
		Order:       order,
		Metadata:    metadata,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.contents.Create(ctx, content); err != nil {
		return nil, writeError("Content", err)
	}
	saved, err := s.contents.GetByID(ctx, content.ID)
	if err != nil {
		return nil, lookupError("Content", err)
	}
	return saved, nil
}

func (s *manualService) UpdateContent(ctx context.Context, identity *models.Identity, id uuid.UUID, req *UpdateContentRequest) (*models.Content, error) {
	content, err := s.GetContent(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		if content.Title, err = requiredTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Body != nil {
		if strings.TrimSpace(*req.Body) == "" {
			return nil, common.NewValidationError("body", "body is required")
		}
		content.Body = *req.Body
	}
	if req.ContentType != nil {
		if content.ContentType, err = parseContentType(*req.ContentType); err != nil {
			return nil, err
		}
	}
	if err := validOrder(req.Order); err != nil {
		return nil, err
	}
	if req.Order != nil {
		content.Order = *req.Order
	}
	if req.Metadata != nil {
		content.Metadata = req.Metadata
	}
	if req.IsActive != nil {
		content.IsActive = *req.IsActive
	}
	if err := s.contents.Update(ctx, content); err != nil {
		return nil, writeError("Content", err)
	}
	saved, err := s.contents.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("Content", err)
	}
	return saved, nil
}

func (s *manualService) DeleteContent(ctx context.Context, identity *models.Identity, id uuid.UUID) error {
	if _, err := s.GetContent(ctx, identity, id); err != nil {
		return err
	}
	if err := s.contents.Delete(ctx, id); err != nil {
		return writeError("Content", err)
	}
	return nil
}
