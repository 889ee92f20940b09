package services

import (
	"context"
	"sort"
	"strings"

	"opsmanual/internal/common"
	"opsmanual/internal/models"
	"opsmanual/internal/repositories"

	"github.com/google/uuid"
)

// MaxSearchResults caps the merged result list.
const MaxSearchResults = 50

type SearchService interface {
	Search(ctx context.Context, identity *models.Identity, query string, airlineID *uuid.UUID) ([]*models.SearchResult, error)
	SearchInChapter(ctx context.Context, identity *models.Identity, chapterID uuid.UUID, query string) ([]*models.SearchResult, error)
}

type searchService struct {
	search   repositories.SearchRepository
	chapters repositories.ChapterRepository
}

func NewSearchService(search repositories.SearchRepository, chapters repositories.ChapterRepository) SearchService {
	return &searchService{search: search, chapters: chapters}
}

func likePattern(query string) (string, error) {
	term := common.EscapeLikePattern(query)
	if term == "" {
		return "", common.NewValidationError("q", "search query is required")
	}
	return "%" + term + "%", nil
}

// Search looks through the chapters, sections and contents of the caller's
// airline. SUPER_ADMIN searches every airline unless one is named.
func (s *searchService) Search(ctx context.Context, identity *models.Identity, query string, airlineID *uuid.UUID) ([]*models.SearchResult, error) {
	pattern, err := likePattern(query)
	if err != nil {
		return nil, err
	}
	scope, err := EffectiveAirlineID(identity, airlineID)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, repositories.SearchQuery{Pattern: pattern, AirlineID: scope, Limit: MaxSearchResults})
}

func (s *searchService) SearchInChapter(ctx context.Context, identity *models.Identity, chapterID uuid.UUID, query string) ([]*models.SearchResult, error) {
	pattern, err := likePattern(query)
	if err != nil {
		return nil, err
	}
	chapter, err := s.chapters.GetByID(ctx, chapterID)
	if err != nil {
		return nil, lookupError("Chapter", err)
	}
	if err := CheckAirlineAccess(identity, chapter.AirlineID); err != nil {
		return nil, err
	}
	airlineID := chapter.AirlineID
	return s.run(ctx, repositories.SearchQuery{
		Pattern:   pattern,
		AirlineID: &airlineID,
		ChapterID: &chapterID,
		Limit:     MaxSearchResults,
	})
}

func (s *searchService) run(ctx context.Context, q repositories.SearchQuery) ([]*models.SearchResult, error) {
	var results []*models.SearchResult
	for _, find := range []func(context.Context, repositories.SearchQuery) ([]*models.SearchResult, error){
		s.search.SearchChapters,
		s.search.SearchSections,
		s.search.SearchContents,
	} {
		found, err := find(ctx, q)
		if err != nil {
			return nil, common.NewInternalError("Search failed", err)
		}
		results = append(results, found...)
	}

	rankResults(results)
	if len(results) > MaxSearchResults {
		results = results[:MaxSearchResults]
	}
	if results == nil {
		results = []*models.SearchResult{}
	}
	return results, nil
}

// rankResults orders by relevance, then chapters before sections before
// contents, then by manual order and title.
func rankResults(results []*models.SearchResult) {
	kind := map[models.SearchResultType]int{
		models.SearchChapter: 0,
		models.SearchSection: 1,
		models.SearchContent: 2,
	}
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Relevance != b.Relevance {
			return a.Relevance > b.Relevance
		}
		if kind[a.Type] != kind[b.Type] {
			return kind[a.Type] < kind[b.Type]
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})
}
