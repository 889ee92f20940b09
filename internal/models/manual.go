package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentType enumerates manual content formats.
type ContentType string

const (
	ContentText     ContentType = "TEXT"
	ContentMarkdown ContentType = "MARKDOWN"
	ContentHTML     ContentType = "HTML"
	ContentImage    ContentType = "IMAGE"
	ContentVideo    ContentType = "VIDEO"
	ContentPDF      ContentType = "PDF"
	ContentLink     ContentType = "LINK"
)

var contentTypes = map[ContentType]bool{
	ContentText: true, ContentMarkdown: true, ContentHTML: true, ContentImage: true,
	ContentVideo: true, ContentPDF: true, ContentLink: true,
}

// Valid reports whether t is a supported content type.
func (t ContentType) Valid() bool {
	return contentTypes[t]
}

type Chapter struct {
	ID          uuid.UUID `json:"id" db:"id"`
	AirlineID   uuid.UUID `json:"airline_id" db:"airline_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	Order       int       `json:"order" db:"sort_order"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Section struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ChapterID   uuid.UUID `json:"chapter_id" db:"chapter_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	Order       int       `json:"order" db:"sort_order"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// AirlineID is resolved through the owning chapter.
	AirlineID uuid.UUID `json:"airline_id" db:"-"`
}

type Content struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	SectionID   uuid.UUID      `json:"section_id" db:"section_id"`
	Title       string         `json:"title" db:"title"`
	Body        string         `json:"body" db:"body"`
	ContentType ContentType    `json:"content_type" db:"content_type"`
	Order       int            `json:"order" db:"sort_order"`
	Metadata    map[string]any `json:"metadata" db:"metadata"`
	IsActive    bool           `json:"is_active" db:"is_active"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`

	// ChapterID and AirlineID are resolved through the owning section.
	ChapterID uuid.UUID `json:"chapter_id" db:"-"`
	AirlineID uuid.UUID `json:"airline_id" db:"-"`
}
