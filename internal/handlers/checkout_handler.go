package handlers

import (
	"log"

	"market/internal/middleware"
	"market/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for the order lifecycle, serving
// registered and anonymous customers alike.
type CheckoutHandler struct {
	service  *services.CheckoutService
	validate *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the checkout and order routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleStartCheckout)
	orderRoutes.Get("/", h.HandleHistory)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Post("/:id/details", h.HandleSubmitDetails)
	orderRoutes.Post("/:id/payment", h.HandlePay)
}

// HandleStartCheckout snapshots the caller's cart into a new order.
func (h *CheckoutHandler) HandleStartCheckout(c *fiber.Ctx) error {
	if profileID := middleware.ProfileID(c); profileID != "" {
		order, err := h.service.StartCheckout(profileID)
		if err != nil {
			log.Printf("Error starting checkout for profile %s: %v", profileID, err)
			return c.Status(errorStatus(err)).JSON(fiber.Map{
				"message": "Could not start checkout",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(order)
	}

	order, err := h.service.StartGuestCheckout(middleware.SessionKey(c))
	if err != nil {
		log.Printf("Error starting guest checkout: %v", err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not start checkout",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleHistory lists the caller's orders, oldest first.
func (h *CheckoutHandler) HandleHistory(c *fiber.Ctx) error {
	if profileID := middleware.ProfileID(c); profileID != "" {
		orders, err := h.service.History(profileID)
		if err != nil {
			log.Printf("Error getting order history for profile %s: %v", profileID, err)
			return c.Status(errorStatus(err)).JSON(fiber.Map{
				"message": "Could not retrieve orders",
				"error":   err.Error(),
			})
		}
		return c.JSON(orders)
	}

	orders, err := h.service.GuestHistory(middleware.SessionKey(c))
	if err != nil {
		log.Printf("Error getting guest order history: %v", err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrder retrieves one of the caller's orders.
func (h *CheckoutHandler) HandleGetOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if profileID := middleware.ProfileID(c); profileID != "" {
		order, err := h.service.GetOrder(profileID, orderID)
		if err != nil {
			log.Printf("Error getting order %s: %v", orderID, err)
			return c.Status(errorStatus(err)).JSON(fiber.Map{
				"message": "Could not retrieve order",
				"error":   err.Error(),
			})
		}
		return c.JSON(order)
	}

	order, err := h.service.GetGuestOrder(middleware.SessionKey(c), orderID)
	if err != nil {
		log.Printf("Error getting guest order %s: %v", orderID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// HandleSubmitDetails records the delivery and contact fields on an order
// and moves it to pending payment.
func (h *CheckoutHandler) HandleSubmitDetails(c *fiber.Ctx) error {
	var details services.OrderDetails
	if err := c.BodyParser(&details); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(details); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrors(err),
		})
	}

	orderID := c.Params("id")
	if profileID := middleware.ProfileID(c); profileID != "" {
		order, err := h.service.SubmitDetails(profileID, orderID, details)
		if err != nil {
			log.Printf("Error submitting details for order %s: %v", orderID, err)
			return c.Status(errorStatus(err)).JSON(fiber.Map{
				"message": "Could not submit order details",
				"error":   err.Error(),
			})
		}
		return c.JSON(order)
	}

	order, err := h.service.SubmitGuestDetails(middleware.SessionKey(c), orderID, details)
	if err != nil {
		log.Printf("Error submitting details for guest order %s: %v", orderID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not submit order details",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// PayRequest represents the request body for paying an order.
type PayRequest struct {
	CardNumber string `json:"card_number" validate:"required,max=32"`
}

// HandlePay runs the payment gateway for an order awaiting payment. A
// declined payment leaves the order retryable with the failure reason
// recorded on it.
func (h *CheckoutHandler) HandlePay(c *fiber.Ctx) error {
	var req PayRequest
	if err := c.BodyParser(&req); err != nil {
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

	orderID := c.Params("id")
	if profileID := middleware.ProfileID(c); profileID != "" {
		order, err := h.service.Pay(c.Context(), profileID, orderID, req.CardNumber)
		if err != nil {
			log.Printf("Error paying order %s: %v", orderID, err)
			return c.Status(errorStatus(err)).JSON(fiber.Map{
				"message": "Could not process payment",
				"error":   err.Error(),
			})
		}
		return c.JSON(order)
	}

	order, err := h.service.PayGuest(c.Context(), middleware.SessionKey(c), orderID, req.CardNumber)
	if err != nil {
		log.Printf("Error paying guest order %s: %v", orderID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not process payment",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}
