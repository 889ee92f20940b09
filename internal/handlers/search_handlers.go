package handlers

import (
	"opsmanual/internal/services"

	"github.com/labstack/echo/v4"
)

// SearchHandlers serves full-text lookups over manual content.
type SearchHandlers struct {
	searchService services.SearchService
}

func NewSearchHandlers(searchService services.SearchService) *SearchHandlers {
	return &SearchHandlers{searchService: searchService}
}

// Search handles GET /search?q=&airline_id=
func (h *SearchHandlers) Search(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	airlineID, err := queryAirlineID(c)
	if err != nil {
		return err
	}
	results, err := h.searchService.Search(c.Request().Context(), identity, c.QueryParam("q"), airlineID)
	if err != nil {
		return err
	}
	return list(c, results)
}

// SearchInChapter handles GET /search/chapters/:chapter_id?q=
func (h *SearchHandlers) SearchInChapter(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	chapterID, err := pathID(c, "chapter_id")
	if err != nil {
		return err
	}
	results, err := h.searchService.SearchInChapter(c.Request().Context(), identity, chapterID, c.QueryParam("q"))
	if err != nil {
		return err
	}
	return list(c, results)
}
