package handlers

import (
	"log"

	"market/internal/middleware"
	"market/internal/repositories"
	"market/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles HTTP requests for catalogue browsing and reviews.
type CatalogHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the catalogue routes with the Fiber app. Browsing
// is open; posting a review requires authentication and removing one is a
// moderator action.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router, authRequired, adminRequired fiber.Handler) {
	catalogRoutes := router.Group("/catalog")
	catalogRoutes.Get("/", h.HandleBrowse)
	catalogRoutes.Get("/featured", h.HandleFeatured)
	catalogRoutes.Get("/categories", h.HandleCategories)
	catalogRoutes.Get("/:id", h.HandleGetProduct)
	catalogRoutes.Post("/:id/reviews", authRequired, h.HandleAddReview)
	catalogRoutes.Delete("/reviews/:id", adminRequired, h.HandleDeleteReview)
}

// HandleBrowse lists active products filtered by the query parameters:
// category, min_price, max_price, q, with_reviews, sort.
func (h *CatalogHandler) HandleBrowse(c *fiber.Ctx) error {
	filter := repositories.CatalogFilter{
		CategoryID:  c.Query("category"),
		MinPrice:    int64(c.QueryInt("min_price")),
		MaxPrice:    int64(c.QueryInt("max_price")),
		Query:       c.Query("q"),
		WithReviews: c.QueryBool("with_reviews"),
		SortBy:      c.Query("sort"),
	}

	products, err := h.service.Browse(filter)
	if err != nil {
		log.Printf("Error browsing catalogue: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleFeatured lists the homepage promotion products.
func (h *CatalogHandler) HandleFeatured(c *fiber.Ctx) error {
	products, err := h.service.Featured()
	if err != nil {
		log.Printf("Error getting featured products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve featured products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleCategories lists the active categories.
func (h *CatalogHandler) HandleCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories()
	if err != nil {
		log.Printf("Error getting categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve categories",
			"error":   err.Error(),
		})
	}
	return c.JSON(categories)
}

// HandleGetProduct retrieves a product with its images and reviews.
func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, images, reviews, err := h.service.GetProduct(productID)
	if err != nil {
		log.Printf("Error getting product %s: %v", productID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"product": product,
		"images":  images,
		"reviews": reviews,
	})
}

// ReviewRequest represents the request body for posting a review.
type ReviewRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

// HandleAddReview posts a review on behalf of the authenticated profile.
func (h *CatalogHandler) HandleAddReview(c *fiber.Ctx) error {
	var req ReviewRequest
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

	review, err := h.service.AddReview(middleware.ProfileID(c), c.Params("id"), req.Body)
	if err != nil {
		log.Printf("Error adding review: %v", err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not add review",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// HandleDeleteReview removes a review and rolls the product's counters back.
func (h *CatalogHandler) HandleDeleteReview(c *fiber.Ctx) error {
	reviewID := c.Params("id")
	if err := h.service.DeleteReview(reviewID); err != nil {
		log.Printf("Error deleting review %s: %v", reviewID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not delete review",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Review deleted"})
}
