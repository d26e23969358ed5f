package presenters

import (
	"errors"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data interface{}, status int, message string) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes the failure envelope. Validator and field errors are
// reported per field; server errors never expose their cause.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	return c.Status(status).JSON(Response{
		Success: false,
		Message: message,
		Errors:  errorDetail(status, err),
	})
}

// StatusFor maps a service error to its HTTP status by category.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}

// ServiceError answers with the status StatusFor picks for err.
func ServiceError(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, StatusFor(err), message, err)
}

func errorDetail(status int, err error) interface{} {
	if err == nil {
		return nil
	}
	if fields := utils.ValidationErrors(err); fields != nil {
		return fields
	}

	var fieldErr *domain.FieldError
	if errors.As(err, &fieldErr) {
		return map[string]string{fieldErr.Field: fieldErr.Message}
	}

	if status >= fiber.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
