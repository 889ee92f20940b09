package middleware

import (
	"github.com/labstack/echo/v4"
)

// APIVersion represents API version information
type APIVersion struct {
	Version string `json:"version"`
	Message string `json:"message,omitempty"`
}

// VersionMiddleware stamps API version headers on a route group.
type VersionMiddleware struct {
	supportedVersions map[string]APIVersion
	defaultVersion    string
}

// NewVersionMiddleware creates a new version middleware instance
func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		supportedVersions: map[string]APIVersion{
			"v1": {Version: "v1", Message: "Current stable API version"},
		},
		defaultVersion: "v1",
	}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", version)
			if ver, exists := vm.supportedVersions[version]; exists {
				h.Set("X-API-Message", ver.Message)
			}
			return next(c)
		}
	}
}

// VersionRoute creates a version-specific route group under prefix.
func (vm *VersionMiddleware) VersionRoute(e *echo.Echo, prefix, version string) *echo.Group {
	group := e.Group(prefix + "/" + version)
	group.Use(vm.VersionHeader(version))
	return group
}

// GetCurrentVersion returns the current active API version
func (vm *VersionMiddleware) GetCurrentVersion() string {
	return vm.defaultVersion
}
