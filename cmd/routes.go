package main

import (
	"opsmanual/internal/caching"
	"opsmanual/internal/common"
	"opsmanual/internal/config"
	"opsmanual/internal/handlers"
	"opsmanual/internal/middleware"
	"opsmanual/internal/models"
	"opsmanual/internal/services"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxRequestBody = "10M"

type routeDeps struct {
	tokens   services.TokenService
	auth     services.AuthService
	airlines services.AirlineService
	users    services.UserService
	manual   services.ManualService
	contacts services.ContactService
	search   services.SearchService

	db      handlers.Pinger
	cache   caching.CacheService
	storage services.StorageService
}

func newServer(cfg *config.Config, deps *routeDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = common.HTTPErrorHandler(cfg.IsDevelopment())

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.BodyLimit(maxRequestBody))

	registerRoutes(e, deps)
	return e
}

func registerRoutes(e *echo.Echo, deps *routeDeps) {
	healthHandlers := handlers.NewHealthHandlers(deps.db, deps.cache, deps.storage, version)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	versionMiddleware := middleware.NewVersionMiddleware()
	v1 := versionMiddleware.VersionRoute(e, "/api", versionMiddleware.GetCurrentVersion())

	authHandlers := handlers.NewAuthHandlers(deps.auth)
	authGroup := v1.Group("/auth")
	authGroup.POST("/login", authHandlers.Login)
	authGroup.POST("/refresh", authHandlers.Refresh)
	authGroup.POST("/logout", authHandlers.Logout)
	authGroup.POST("/password-reset-request", authHandlers.RequestPasswordReset)
	authGroup.POST("/password-reset", authHandlers.ResetPassword)

	protected := v1.Group("", middleware.Authenticate(deps.tokens, deps.auth))
	protected.GET("/auth/me", authHandlers.Me)

	viewer := middleware.RequireRole(models.RoleViewer)
	editor := middleware.RequireRole(models.RoleEditor)
	admin := middleware.RequireRole(models.RoleAdmin)
	superAdmin := middleware.RequireSuperAdmin()
	tenant := middleware.TenantGuard()

	airlineHandlers := handlers.NewAirlineHandlers(deps.airlines)
	airlines := protected.Group("/airlines")
	airlines.GET("", airlineHandlers.ListAirlines, superAdmin)
	airlines.POST("", airlineHandlers.CreateAirline, superAdmin)
	airlines.GET("/:airline_id", airlineHandlers.GetAirline, editor, tenant)
	airlines.PUT("/:airline_id", airlineHandlers.UpdateAirline, editor, tenant)
	airlines.DELETE("/:airline_id", airlineHandlers.DeleteAirline, superAdmin)
	airlines.POST("/:airline_id/activate", airlineHandlers.ActivateAirline, superAdmin)
	airlines.POST("/:airline_id/deactivate", airlineHandlers.DeactivateAirline, superAdmin)
	airlines.POST("/:airline_id/logo", airlineHandlers.UploadLogo, admin, tenant)

	userHandlers := handlers.NewUserHandlers(deps.users)
	users := protected.Group("/users")
	users.GET("", userHandlers.ListUsers, admin)
	users.POST("", userHandlers.CreateUser, admin, tenant)
	users.GET("/:user_id", userHandlers.GetUser, admin)
	users.PUT("/:user_id", userHandlers.UpdateUser, admin, tenant)
	users.DELETE("/:user_id", userHandlers.DeleteUser, admin)
	users.POST("/:user_id/activate", userHandlers.ActivateUser, admin)
	users.PUT("/:user_id/password", userHandlers.ChangePassword, viewer)

	manualHandlers := handlers.NewManualHandlers(deps.manual)
	protected.GET("/chapters", manualHandlers.ListChapters, viewer, tenant)
	protected.POST("/chapters", manualHandlers.CreateChapter, editor, tenant)
	protected.GET("/chapters/:chapter_id", manualHandlers.GetChapter, viewer)
	protected.PUT("/chapters/:chapter_id", manualHandlers.UpdateChapter, editor, tenant)
	protected.DELETE("/chapters/:chapter_id", manualHandlers.DeleteChapter, editor, tenant)
	protected.GET("/chapters/:chapter_id/sections", manualHandlers.ListSections, viewer)
	protected.POST("/chapters/:chapter_id/sections", manualHandlers.CreateSection, editor, tenant)
	protected.GET("/sections/:section_id", manualHandlers.GetSection, viewer)
	protected.PUT("/sections/:section_id", manualHandlers.UpdateSection, editor, tenant)
	protected.DELETE("/sections/:section_id", manualHandlers.DeleteSection, editor, tenant)
	protected.GET("/sections/:section_id/contents", manualHandlers.ListContents, viewer)
	protected.POST("/sections/:section_id/contents", manualHandlers.CreateContent, editor, tenant)
	protected.GET("/contents/:content_id", manualHandlers.GetContent, viewer)
	protected.PUT("/contents/:content_id", manualHandlers.UpdateContent, editor, tenant)
	protected.DELETE("/contents/:content_id", manualHandlers.DeleteContent, editor, tenant)

	contactHandlers := handlers.NewContactHandlers(deps.contacts)
	protected.GET("/contact-groups", contactHandlers.ListGroups, viewer, tenant)
	protected.POST("/contact-groups", contactHandlers.CreateGroup, editor, tenant)
	protected.GET("/contact-groups/:group_id", contactHandlers.GetGroup, viewer)
	protected.PUT("/contact-groups/:group_id", contactHandlers.UpdateGroup, editor, tenant)
	protected.DELETE("/contact-groups/:group_id", contactHandlers.DeleteGroup, editor, tenant)
	protected.GET("/contact-groups/:group_id/contacts", contactHandlers.ListContacts, viewer)
	protected.POST("/contact-groups/:group_id/contacts", contactHandlers.CreateContact, editor, tenant)
	protected.GET("/contacts/:contact_id", contactHandlers.GetContact, viewer)
	protected.PUT("/contacts/:contact_id", contactHandlers.UpdateContact, editor, tenant)
	protected.DELETE("/contacts/:contact_id", contactHandlers.DeleteContact, editor, tenant)

	searchHandlers := handlers.NewSearchHandlers(deps.search)
	protected.GET("/search", searchHandlers.Search, viewer, tenant)
	protected.GET("/search/chapters/:chapter_id", searchHandlers.SearchInChapter, viewer)
}
