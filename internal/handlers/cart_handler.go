package handlers

import (
	"log"

	"market/internal/middleware"
	"market/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart. Each handler
// serves both registered customers (via their profile) and anonymous
// visitors (via the session key), picking whichever identity the request
// carries.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleAdjustItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
}

// HandleGetCart returns the caller's cart with its line items and total.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	if profileID := middleware.ProfileID(c); profileID != "" {
		cart, items, err := h.service.GetCart(profileID)
		if err != nil {
			log.Printf("Error getting cart for profile %s: %v", profileID, err)
			return c.Status(errorStatus(err)).JSON(fiber.Map{
				"message": "Could not retrieve cart",
				"error":   err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"items": items,
			"total": cart.Total,
		})
	}

	items, total, err := h.service.GetGuestCart(middleware.SessionKey(c))
	if err != nil {
		log.Printf("Error getting guest cart: %v", err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"items": items,
		"total": total,
	})
}

// AddItemRequest represents the request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// HandleAddItem puts a product into the caller's cart. Adding a product
// already in the cart grows its line quantity.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
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

	if profileID := middleware.ProfileID(c); profileID != "" {
		item, err := h.service.AddItem(profileID, req.ProductID, req.Quantity)
		if err != nil {
			log.Printf("Error adding cart item for profile %s: %v", profileID, err)
			return c.Status(errorStatus(err)).JSON(fiber.Map{
				"message": "Could not add item to cart",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	}

	item, err := h.service.AddGuestItem(middleware.SessionKey(c), req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("Error adding guest cart item: %v", err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not add item to cart",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// AdjustItemRequest represents the request body for changing a line quantity.
type AdjustItemRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// HandleAdjustItem changes a line item's quantity by a signed delta. A line
// that drops to zero disappears from the cart.
func (h *CartHandler) HandleAdjustItem(c *fiber.Ctx) error {
	var req AdjustItemRequest
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

	itemID := c.Params("id")
	var err error
	if profileID := middleware.ProfileID(c); profileID != "" {
		err = h.service.AdjustItem(profileID, itemID, req.Delta)
	} else {
		err = h.service.AdjustGuestItem(middleware.SessionKey(c), itemID, req.Delta)
	}
	if err != nil {
		log.Printf("Error adjusting cart item %s: %v", itemID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not update cart item",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Cart item updated"})
}

// HandleRemoveItem deletes a line item from the caller's cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	itemID := c.Params("id")
	var err error
	if profileID := middleware.ProfileID(c); profileID != "" {
		err = h.service.RemoveItem(profileID, itemID)
	} else {
		err = h.service.RemoveGuestItem(middleware.SessionKey(c), itemID)
	}
	if err != nil {
		log.Printf("Error removing cart item %s: %v", itemID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not remove cart item",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Cart item removed"})
}
