package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/learnvault/learnvault-api/internal/config"
	"github.com/learnvault/learnvault-api/internal/handler"
	"github.com/learnvault/learnvault-api/internal/middleware"
	"github.com/learnvault/learnvault-api/internal/models"
	"github.com/learnvault/learnvault-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ResourceHandler *handler.ResourceHandler
	ActivityHandler *handler.ActivityHandler
	JWTMiddleware   fiber.Handler
	RateLimiter     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = func(c *fiber.Ctx) error { return c.Next() }
	}

	manager := middleware.RequireRole(models.RoleContentManager)

	if deps.ResourceHandler != nil {
		resources := api.Group("/resources", jwtMiddleware, rateLimiter)
		deps.ResourceHandler.Register(resources, manager)
	}

	// The audit trail is readable by content managers only.
	if deps.ActivityHandler != nil {
		activities := api.Group("/activities", jwtMiddleware, rateLimiter, manager)
		deps.ActivityHandler.Register(activities)
	}
}
