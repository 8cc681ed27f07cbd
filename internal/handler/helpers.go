package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/praxisdev/praxis-api/internal/middleware"
)

// actingUserID returns the user the upstream identity layer vouched for.
// Authentication itself happens outside this service; the identity
// collaborator forwards the resolved user id in a header.
func actingUserID(c *fiber.Ctx) uint {
	value := strings.TrimSpace(c.Get("X-User-ID"))
	if value == "" {
		return 0
	}

	parsed, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0
	}

	return uint(parsed)
}

func parseQueryUint(c *fiber.Ctx, key string) (*uint, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return nil, err
	}

	result := uint(parsed)
	return &result, nil
}

func queryString(c *fiber.Ctx, key string) *string {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil
	}
	return &value
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}
