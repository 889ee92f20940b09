package handlers

import (
	"opsmanual/internal/services"

	"github.com/labstack/echo/v4"
)

// ManualHandlers serves the chapter, section and content tree.
type ManualHandlers struct {
	manualService services.ManualService
}

func NewManualHandlers(manualService services.ManualService) *ManualHandlers {
	return &ManualHandlers{manualService: manualService}
}

func includeInactive(c echo.Context) bool {
	return queryBool(c, "include_inactive", "includeInactive")
}

// ListChapters lists chapters of the caller's airline, or of ?airline_id= for
// super admins.
func (h *ManualHandlers) ListChapters(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	airlineID, err := queryAirlineID(c)
	if err != nil {
		return err
	}
	chapters, err := h.manualService.ListChapters(c.Request().Context(), identity, airlineID, includeInactive(c))
	if err != nil {
		return err
	}
	return list(c, chapters)
}

func (h *ManualHandlers) GetChapter(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "chapter_id")
	if err != nil {
		return err
	}
	chapter, err := h.manualService.GetChapter(c.Request().Context(), identity, id)
	if err != nil {
		return err
	}
	return ok(c, chapter)
}

func (h *ManualHandlers) CreateChapter(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req services.CreateChapterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	chapter, err := h.manualService.CreateChapter(c.Request().Context(), identity, &req)
	if err != nil {
		return err
	}
	return created(c, chapter)
}

func (h *ManualHandlers) UpdateChapter(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "chapter_id")
	if err != nil {
		return err
	}
	var req services.UpdateNodeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	chapter, err := h.manualService.UpdateChapter(c.Request().Context(), identity, id, &req)
	if err != nil {
		return err
	}
	return ok(c, chapter)
}

func (h *ManualHandlers) DeleteChapter(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "chapter_id")
	if err != nil {
		return err
	}
	if err := h.manualService.DeleteChapter(c.Request().Context(), identity, id); err != nil {
		return err
	}
	return message(c, "Chapter deleted successfully")
}

func (h *ManualHandlers) ListSections(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	chapterID, err := pathID(c, "chapter_id")
	if err != nil {
		return err
	}
	sections, err := h.manualService.ListSections(c.Request().Context(), identity, chapterID, includeInactive(c))
	if err != nil {
		return err
	}
	return list(c, sections)
}

func (h *ManualHandlers) GetSection(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "section_id")
	if err != nil {
		return err
	}
	section, err := h.manualService.GetSection(c.Request().Context(), identity, id)
	if err != nil {
		return err
	}
	return ok(c, section)
}

// CreateSection adds a section under the chapter named in the path.
func (h *ManualHandlers) CreateSection(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	chapterID, err := pathID(c, "chapter_id")
	if err != nil {
		return err
	}
	var req services.CreateSectionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	section, err := h.manualService.CreateSection(c.Request().Context(), identity, chapterID, &req)
	if err != nil {
		return err
	}
	return created(c, section)
}

func (h *ManualHandlers) UpdateSection(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "section_id")
	if err != nil {
		return err
	}
	var req services.UpdateNodeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	section, err := h.manualService.UpdateSection(c.Request().Context(), identity, id, &req)
	if err != nil {
		return err
	}
	return ok(c, section)
}

func (h *ManualHandlers) DeleteSection(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "section_id")
	if err != nil {
		return err
	}
	if err := h.manualService.DeleteSection(c.Request().Context(), identity, id); err != nil {
		return err
	}
	return message(c, "Section deleted successfully")
}

func (h *ManualHandlers) ListContents(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	sectionID, err := pathID(c, "section_id")
	if err != nil {
		return err
	}
	contents, err := h.manualService.ListContents(c.Request().Context(), identity, sectionID, includeInactive(c))
	if err != nil {
		return err
	}
	return list(c, contents)
}

func (h *ManualHandlers) GetContent(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "content_id")
	if err != nil {
		return err
	}
	content, err := h.manualService.GetContent(c.Request().Context(), identity, id)
	if err != nil {
		return err
	}
	return ok(c, content)
}

func (h *ManualHandlers) CreateContent(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	sectionID, err := pathID(c, "section_id")
	if err != nil {
		return err
	}
	var req services.CreateContentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	content, err := h.manualService.CreateContent(c.Request().Context(), identity, sectionID, &req)
	if err != nil {
		return err
	}
	return created(c, content)
}

func (h *ManualHandlers) UpdateContent(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "content_id")
	if err != nil {
		return err
	}
	var req services.UpdateContentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	content, err := h.manualService.UpdateContent(c.Request().Context(), identity, id, &req)
	if err != nil {
		return err
	}
	return ok(c, content)
}

func (h *ManualHandlers) DeleteContent(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "content_id")
	if err != nil {
		return err
	}
	if err := h.manualService.DeleteContent(c.Request().Context(), identity, id); err != nil {
		return err
	}
	return message(c, "Content deleted successfully")
}
