package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/praxisdev/praxis-api/internal/config"
	"github.com/praxisdev/praxis-api/internal/handler"
	"github.com/praxisdev/praxis-api/internal/middleware"
	"github.com/praxisdev/praxis-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SubmissionHandler *handler.SubmissionHandler
	InboxHandler      *handler.InboxHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions")

		// Throttle writes only; reads stay unmetered.
		limit := middleware.RateLimit("submissions", cfg.SubmitRateMax, cfg.SubmitRateWin)
		submissions.Use(func(c *fiber.Ctx) error {
			if c.Method() == fiber.MethodPost || c.Method() == fiber.MethodDelete {
				return limit(c)
			}
			return c.Next()
		})

		deps.SubmissionHandler.Register(submissions)
	}

	if deps.InboxHandler != nil {
		deps.InboxHandler.Register(api.Group("/inbox"))
	}
}
