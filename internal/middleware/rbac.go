package middleware

import (
	"opsmanual/internal/common"
	"opsmanual/internal/metrics"
	"opsmanual/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRoles admits only identities whose role is in the allow-set.
// It must run after Authenticate.
func RequireRoles(allowed ...models.Role) echo.MiddlewareFunc {
	set := make(map[models.Role]bool, len(allowed))
	for _, r := range allowed {
		set[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := common.GetIdentityFromContext(c.Request().Context())
			if !ok {
				return common.ErrUnauthenticated
			}
			if !set[identity.Role] {
				metrics.ObserveDenied("role")
				return common.ErrForbidden
			}
			return next(c)
		}
	}
}

// RequireRole admits min and every role above it.
func RequireRole(min models.Role) echo.MiddlewareFunc {
	return RequireRoles(models.RolesAtLeast(min)...)
}

func RequireSuperAdmin() echo.MiddlewareFunc {
	return RequireRoles(models.RoleSuperAdmin)
}
