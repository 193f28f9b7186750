package handlers

import (
	"log"

	"market/internal/models"
	"market/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles HTTP requests for the moderator console. Every route
// behind it is gated by the moderator middleware.
type AdminHandler struct {
	service  *services.AdminService
	validate *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *services.AdminService) *AdminHandler {
	return &AdminHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the moderator routes with the Fiber app, gated
// behind the given moderator middleware.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, adminRequired fiber.Handler) {
	adminRoutes := router.Group("/admin", adminRequired)

	adminRoutes.Get("/users", h.HandleListProfiles)
	adminRoutes.Put("/users/:id", h.HandleUpdateProfile)
	adminRoutes.Put("/users/:id/role", h.HandleSetRole)

	adminRoutes.Get("/orders", h.HandleListOrders)
	adminRoutes.Put("/orders/:id", h.HandleUpdateOrder)
	adminRoutes.Put("/guest-orders/:id", h.HandleUpdateGuestOrder)

	adminRoutes.Get("/products", h.HandleListProducts)
	adminRoutes.Post("/products", h.HandleCreateProduct)
	adminRoutes.Put("/products/:id", h.HandleUpdateProduct)
	adminRoutes.Delete("/products/:id", h.HandleDeleteProduct)
	adminRoutes.Post("/products/:id/images", h.HandleAddProductImage)

	adminRoutes.Get("/categories", h.HandleListCategories)
	adminRoutes.Post("/categories", h.HandleCreateCategory)
	adminRoutes.Put("/categories/:id", h.HandleUpdateCategory)
	adminRoutes.Delete("/categories/:id", h.HandleDeleteCategory)
}

// HandleListProfiles lists profiles, filtered by the optional q parameter
// matching against usernames.
func (h *AdminHandler) HandleListProfiles(c *fiber.Ctx) error {
	profiles, err := h.service.Profiles(c.Query("q"))
	if err != nil {
		log.Printf("Error listing profiles: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve profiles",
			"error":   err.Error(),
		})
	}
	return c.JSON(profiles)
}

// UpdateProfileRequest represents the moderator's profile edit body. Absent
// fields are left as they are.
type UpdateProfileRequest struct {
	Avatar *string `json:"avatar" validate:"omitempty,max=255"`
	Phone  *string `json:"phone" validate:"omitempty,max=20"`
	Active *bool   `json:"active"`
}

// HandleUpdateProfile edits a profile's contact fields and activity flag.
// The moderator flag is untouchable here; role changes go through the
// dedicated role route.
func (h *AdminHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
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

	profileID := c.Params("id")
	profile, err := h.service.GetProfile(profileID)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not retrieve profile",
			"error":   err.Error(),
		})
	}
	if req.Avatar != nil {
		profile.Avatar = *req.Avatar
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.Active != nil {
		profile.Active = *req.Active
	}
	if err := h.service.UpdateProfile(profile); err != nil {
		log.Printf("Error updating profile %s: %v", profileID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not update profile",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Profile updated"})
}

// SetRoleRequest represents the request body for the role route.
type SetRoleRequest struct {
	Admin bool `json:"admin"`
}

// HandleSetRole grants or revokes moderator membership on a profile.
func (h *AdminHandler) HandleSetRole(c *fiber.Ctx) error {
	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	profileID := c.Params("id")
	if err := h.service.SetRole(profileID, req.Admin); err != nil {
		log.Printf("Error setting role for profile %s: %v", profileID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not update role",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Role updated"})
}

// HandleListOrders lists every order, registered and guest.
func (h *AdminHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, guestOrders, err := h.service.Orders()
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"orders":       orders,
		"guest_orders": guestOrders,
	})
}

// UpdateOrderRequest represents the moderator's order edit body.
type UpdateOrderRequest struct {
	Status         string `json:"status" validate:"omitempty,oneof=created pending_payment paid failed"`
	DeliveryMethod string `json:"delivery_method" validate:"omitempty,oneof=delivery 'in shop'"`
	Name           string `json:"name" validate:"omitempty,max=100"`
	Phone          string `json:"phone" validate:"omitempty,max=20"`
	City           string `json:"city" validate:"omitempty,max=100"`
	Address        string `json:"address" validate:"omitempty,max=200"`
	Active         *bool  `json:"active"`
}

func applyOrderUpdate(order *models.Order, req UpdateOrderRequest) {
	if req.Status != "" {
		order.Status = req.Status
	}
	if req.DeliveryMethod != "" {
		order.DeliveryMethod = req.DeliveryMethod
	}
	if req.Name != "" {
		order.Name = req.Name
	}
	if req.Phone != "" {
		order.Phone = req.Phone
	}
	if req.City != "" {
		order.City = req.City
	}
	if req.Address != "" {
		order.Address = req.Address
	}
	if req.Active != nil {
		order.Active = *req.Active
	}
}

func applyGuestOrderUpdate(order *models.GuestOrder, req UpdateOrderRequest) {
	if req.Status != "" {
		order.Status = req.Status
	}
	if req.DeliveryMethod != "" {
		order.DeliveryMethod = req.DeliveryMethod
	}
	if req.Name != "" {
		order.Name = req.Name
	}
	if req.Phone != "" {
		order.Phone = req.Phone
	}
	if req.City != "" {
		order.City = req.City
	}
	if req.Address != "" {
		order.Address = req.Address
	}
	if req.Active != nil {
		order.Active = *req.Active
	}
}

// HandleUpdateOrder edits an order's mutable fields.
func (h *AdminHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	var req UpdateOrderRequest
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
	order, err := h.service.GetOrder(orderID)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	applyOrderUpdate(order, req)
	if err := h.service.UpdateOrder(order); err != nil {
		log.Printf("Error updating order %s: %v", orderID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not update order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// HandleUpdateGuestOrder edits a guest order's mutable fields.
func (h *AdminHandler) HandleUpdateGuestOrder(c *fiber.Ctx) error {
	var req UpdateOrderRequest
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
	order, err := h.service.GetGuestOrder(orderID)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	applyGuestOrderUpdate(order, req)
	if err := h.service.UpdateGuestOrder(order); err != nil {
		log.Printf("Error updating guest order %s: %v", orderID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not update order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// HandleListProducts lists the whole catalogue, inactive products included.
func (h *AdminHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.service.Products()
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// ProductRequest represents the request body for creating or editing a
// product.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Price       int64   `json:"price" validate:"gte=0"`
	Description string  `json:"description" validate:"omitempty,max=5000"`
	CategoryID  *string `json:"category_id"`
	Limited     bool    `json:"limited"`
}

// HandleCreateProduct adds a product to the catalogue.
func (h *AdminHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
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

	product := &models.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Limited:     req.Limited,
	}
	if err := h.service.CreateProduct(product); err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct edits a product.
func (h *AdminHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
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

	productID := c.Params("id")
	product, err := h.service.GetProduct(productID)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	product.Name = req.Name
	product.Price = req.Price
	product.Description = req.Description
	product.CategoryID = req.CategoryID
	product.Limited = req.Limited
	if err := h.service.UpdateProduct(product); err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleDeleteProduct retires a product from the storefront. Placed orders
// keep their snapshot lines.
func (h *AdminHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProduct(productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// ProductImageRequest represents the request body for attaching an image.
type ProductImageRequest struct {
	Path string `json:"path" validate:"required,max=255"`
}

// HandleAddProductImage attaches an image path to a product.
func (h *AdminHandler) HandleAddProductImage(c *fiber.Ctx) error {
	var req ProductImageRequest
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

	image, err := h.service.AddProductImage(c.Params("id"), req.Path)
	if err != nil {
		log.Printf("Error adding product image: %v", err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not add product image",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}

// HandleListCategories lists categories, filtered by the optional q
// parameter matching against names.
func (h *AdminHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.Query("q"))
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve categories",
			"error":   err.Error(),
		})
	}
	return c.JSON(categories)
}

// CategoryRequest represents the request body for creating or renaming a
// category.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// HandleCreateCategory adds a catalogue category.
func (h *AdminHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
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

	category := &models.Category{Name: req.Name}
	if err := h.service.CreateCategory(category); err != nil {
		log.Printf("Error creating category: %v", err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not create category",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdateCategory renames a category.
func (h *AdminHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
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

	categoryID := c.Params("id")
	category, err := h.service.GetCategory(categoryID)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not retrieve category",
			"error":   err.Error(),
		})
	}
	category.Name = req.Name
	if err := h.service.UpdateCategory(category); err != nil {
		log.Printf("Error updating category %s: %v", categoryID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not update category",
			"error":   err.Error(),
		})
	}
	return c.JSON(category)
}

// HandleDeleteCategory retires a category; its products stay in the
// catalogue without it.
func (h *AdminHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	categoryID := c.Params("id")
	if err := h.service.DeleteCategory(categoryID); err != nil {
		log.Printf("Error deleting category %s: %v", categoryID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not delete category",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
