package utils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success payload using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
	})
}

// SendValidationError maps a validation failure to a 400, naming the fields
// that failed so callers need not parse the raw validator message.
func SendValidationError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return SendError(c, fiber.StatusBadRequest, err.Error())
	}

	fields := make([]fiber.Map, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fiber.Map{
			"field": fieldErr.Field(),
			"rule":  fieldErr.Tag(),
		})
	}

	return c.Status(fiber.StatusBadRequest).JSON(APIResponse{
		Success: false,
		Data:    fiber.Map{"fields": fields},
		Message: "validation failed",
	})
}
