package middleware

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Config customises the middleware registration pipeline.
type Config struct {
	Logger *zerolog.Logger
	// AllowOrigins restricts CORS to the listed origins; empty allows all.
	AllowOrigins string
}

// Register attaches the common middlewares. Request logging happens inside
// Observability; there is no separate access log.
func Register(app *fiber.App, cfg Config) {
	requestLogger := zerolog.New(io.Discard)
	if cfg.Logger != nil {
		requestLogger = *cfg.Logger
	}

	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}

	app.Use(recover.New())
	app.Use(CorrelationID())
	app.Use(Observability(requestLogger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		// The identity layer forwards the acting user in X-User-ID.
		AllowHeaders: "Origin, Content-Type, Accept, X-User-ID, X-Correlation-ID",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
	}))
}
