package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"opsmanual/internal/common"
	"opsmanual/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SuccessResponse is the envelope of every successful API response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data})
}

func created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: data})
}

func message(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: msg})
}

func list[T any](c echo.Context, items []T) error {
	n := len(items)
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: items, Count: &n})
}

// currentIdentity returns the identity attached by the Authenticate middleware.
func currentIdentity(c echo.Context) (*models.Identity, error) {
	identity, ok := common.GetIdentityFromContext(c.Request().Context())
	if !ok {
		return nil, common.ErrUnauthenticated
	}
	return identity, nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param(name), name)
}

func queryAirlineID(c echo.Context) (*uuid.UUID, error) {
	return common.ParseOptionalUUID(c.QueryParam("airline_id"), "airline_id")
}

// queryBool accepts the snake_case and camelCase spellings of a flag.
func queryBool(c echo.Context, names ...string) bool {
	for _, name := range names {
		if v := strings.TrimSpace(c.QueryParam(name)); v != "" {
			b, err := strconv.ParseBool(v)
			return err == nil && b
		}
	}
	return false
}

func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return common.NewValidationError("body", "Invalid request format")
	}
	return nil
}
