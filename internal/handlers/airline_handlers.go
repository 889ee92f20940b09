package handlers

import (
	"opsmanual/internal/common"
	"opsmanual/internal/services"

	"github.com/labstack/echo/v4"
)

// AirlineHandlers handles airline (tenant) HTTP requests
type AirlineHandlers struct {
	airlineService services.AirlineService
}

// NewAirlineHandlers creates a new airline handlers instance
func NewAirlineHandlers(airlineService services.AirlineService) *AirlineHandlers {
	return &AirlineHandlers{airlineService: airlineService}
}

// ListAirlines returns every airline for super admins and the caller's own
// airline otherwise.
func (h *AirlineHandlers) ListAirlines(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	airlines, err := h.airlineService.List(c.Request().Context(), identity, queryBool(c, "include_inactive", "includeInactive"))
	if err != nil {
		return err
	}
	return list(c, airlines)
}

func (h *AirlineHandlers) GetAirline(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "airline_id")
	if err != nil {
		return err
	}
	airline, err := h.airlineService.Get(c.Request().Context(), identity, id)
	if err != nil {
		return err
	}
	return ok(c, airline)
}

// CreateAirline handles airline creation (super admin only)
func (h *AirlineHandlers) CreateAirline(c echo.Context) error {
	var req services.CreateAirlineRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	airline, err := h.airlineService.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return created(c, airline)
}

func (h *AirlineHandlers) UpdateAirline(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "airline_id")
	if err != nil {
		return err
	}
	var req services.UpdateAirlineRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	airline, err := h.airlineService.Update(c.Request().Context(), identity, id, &req)
	if err != nil {
		return err
	}
	return ok(c, airline)
}

// DeleteAirline removes an airline that no longer has users.
func (h *AirlineHandlers) DeleteAirline(c echo.Context) error {
	id, err := pathID(c, "airline_id")
	if err != nil {
		return err
	}
	if err := h.airlineService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return message(c, "Airline deleted successfully")
}

func (h *AirlineHandlers) ActivateAirline(c echo.Context) error {
	return h.setActive(c, true)
}

func (h *AirlineHandlers) DeactivateAirline(c echo.Context) error {
	return h.setActive(c, false)
}

func (h *AirlineHandlers) setActive(c echo.Context, active bool) error {
	id, err := pathID(c, "airline_id")
	if err != nil {
		return err
	}
	airline, err := h.airlineService.SetActive(c.Request().Context(), id, active)
	if err != nil {
		return err
	}
	return ok(c, airline)
}

// UploadLogo stores the multipart "logo" file and records its URL in the
// airline branding.
func (h *AirlineHandlers) UploadLogo(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "airline_id")
	if err != nil {
		return err
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return common.NewValidationError("logo", "logo file is required")
	}
	src, err := file.Open()
	if err != nil {
		return common.NewInternalError("failed to read uploaded logo", err)
	}
	defer src.Close()

	airline, err := h.airlineService.UploadLogo(c.Request().Context(), identity, id, &services.LogoUpload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Reader:      src,
	})
	if err != nil {
		return err
	}
	return ok(c, airline)
}
