package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/atis-edu/assessment-api/internal/config"
	"github.com/atis-edu/assessment-api/internal/handler"
	"github.com/atis-edu/assessment-api/internal/middleware"
	"github.com/atis-edu/assessment-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DraftHandler     *handler.DraftHandler
	ReferenceHandler *handler.ReferenceHandler
	JWTMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
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

	if deps.ReferenceHandler != nil {
		reference := app.Group("/api/v2/reference", jwtMiddleware)
		deps.ReferenceHandler.Register(reference)
	}

	if deps.DraftHandler != nil {
		drafts := app.Group("/api/v2/assessment-drafts",
			jwtMiddleware,
			middleware.RequireRole("admin", "inspector", "methodist"),
			middleware.RateLimit("assessment-drafts", 30, time.Second),
		)
		deps.DraftHandler.Register(drafts)
	}
}
