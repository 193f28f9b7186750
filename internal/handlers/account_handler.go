package handlers

import (
	"log"

	"market/internal/middleware"
	"market/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AccountHandler handles HTTP requests for a customer's own account page.
type AccountHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(authService *services.AuthService) *AccountHandler {
	return &AccountHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the account routes with the Fiber app. Both
// routes require authentication.
func (h *AccountHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	accountRoutes := router.Group("/account", authRequired)
	accountRoutes.Get("/", h.HandleGetAccount)
	accountRoutes.Put("/", h.HandleUpdateAccount)
}

// HandleGetAccount returns the caller's own profile.
func (h *AccountHandler) HandleGetAccount(c *fiber.Ctx) error {
	profile, err := h.authService.Profile(middleware.ProfileID(c))
	if err != nil {
		log.Printf("Error getting account profile: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load account",
			"error":   err.Error(),
		})
	}

	// For security, do not return the password hash
	if profile.User != nil {
		profile.User.Password = ""
	}
	return c.JSON(fiber.Map{
		"profile": profile,
	})
}

// AccountUpdateRequest represents the request body for updating one's own
// account. Absent fields are left as they are.
type AccountUpdateRequest struct {
	Avatar *string `json:"avatar" validate:"omitempty,max=255"`
	Phone  *string `json:"phone" validate:"omitempty,max=20"`
}

// HandleUpdateAccount updates the caller's contact details.
func (h *AccountHandler) HandleUpdateAccount(c *fiber.Ctx) error {
	var req AccountUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing account update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrors(err),
		})
	}

	profile, err := h.authService.UpdateAccount(middleware.ProfileID(c), req.Avatar, req.Phone)
	if err != nil {
		log.Printf("Error updating account profile: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update account",
			"error":   err.Error(),
		})
	}

	if profile.User != nil {
		profile.User.Password = ""
	}
	return c.JSON(fiber.Map{
		"message": "Account updated successfully",
		"profile": profile,
	})
}
