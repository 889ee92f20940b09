package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"opsmanual/internal/common"
	"opsmanual/internal/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const airlineIDParam = "airline_id"

// TenantGuard rejects requests that name an airline other than the caller's
// own. The airline may be named by the :airline_id path parameter, the
// airline_id query parameter or an airline_id field in a JSON body.
// SUPER_ADMIN passes unconditionally; any other user without an airline is
// rejected. It must run after Authenticate.
func TenantGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := common.GetIdentityFromContext(c.Request().Context())
			if !ok {
				return common.ErrUnauthenticated
			}
			if identity.IsSuperAdmin() {
				return next(c)
			}
			if identity.AirlineID == nil {
				metrics.ObserveDenied("tenant")
				return common.NewForbiddenError("User is not assigned to an airline")
			}

			requested, err := requestedAirlineIDs(c)
			if err != nil {
				return err
			}
			for _, id := range requested {
				if id != *identity.AirlineID {
					metrics.ObserveDenied("tenant")
					return common.NewForbiddenError("Access denied to this airline")
				}
			}
			return next(c)
		}
	}
}

func requestedAirlineIDs(c echo.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	add := func(raw string) error {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		id, err := common.ValidateUUID(raw, airlineIDParam)
		if err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	}

	if err := add(c.Param(airlineIDParam)); err != nil {
		return nil, err
	}
	if err := add(c.QueryParam(airlineIDParam)); err != nil {
		return nil, err
	}
	fromBody, err := bodyAirlineID(c)
	if err != nil {
		return nil, err
	}
	if err := add(fromBody); err != nil {
		return nil, err
	}
	return ids, nil
}

// bodyAirlineID peeks at a JSON body and restores it for the handler.
func bodyAirlineID(c echo.Context) (string, error) {
	req := c.Request()
	if req.Body == nil || req.Method == http.MethodGet || req.Method == http.MethodDelete {
		return "", nil
	}
	if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return "", nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Failed to read request body")
	}
	req.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		AirlineID *string `json:"airline_id"`
	}
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &payload) != nil {
		// Malformed bodies are reported by the handler's bind step.
		return "", nil
	}
	return common.SafeString(payload.AirlineID), nil
}
