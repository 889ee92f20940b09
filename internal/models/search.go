package models

import "github.com/google/uuid"

// SearchResultType names the kind of manual node a hit refers to.
type SearchResultType string

const (
	SearchChapter SearchResultType = "chapter"
	SearchSection SearchResultType = "section"
	SearchContent SearchResultType = "content"
)

type SearchResult struct {
	Type         SearchResultType `json:"type"`
	ID           uuid.UUID        `json:"id"`
	Title        string           `json:"title"`
	Snippet      string           `json:"snippet,omitempty"`
	AirlineID    uuid.UUID        `json:"airline_id"`
	ChapterID    uuid.UUID        `json:"chapter_id"`
	ChapterTitle string           `json:"chapter_title"`
	SectionID    *uuid.UUID       `json:"section_id,omitempty"`
	SectionTitle *string          `json:"section_title,omitempty"`
	Order        int              `json:"order"`
	Relevance    int              `json:"relevance"`
}
