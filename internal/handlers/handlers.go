package handlers

import (
	"errors"
	"strings"

	"market/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// errorStatus maps a service error onto the HTTP status the storefront
// surfaces it as.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrAccessDenied):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrEmptyCart):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotPayable):
		return fiber.StatusConflict
	case strings.Contains(err.Error(), "not found"):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// validationErrors turns validator failures into field-level messages for
// the client; no domain state is mutated on a validation failure.
func validationErrors(err error) map[string]string {
	messages := make(map[string]string)
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, e := range fieldErrors {
			messages[e.Field()] = "Field '" + e.Field() + "' failed on the '" + e.Tag() + "' tag"
		}
	}
	return messages
}
