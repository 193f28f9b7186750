package services

import (
	"fmt"

	"market/internal/models"
	"market/internal/repositories"
)

// AdminService backs the moderator console: CRUD over users, orders,
// products, and categories. Access control happens in middleware; this
// service assumes a moderator caller.
type AdminService struct {
	userRepo     repositories.UserRepository
	profileRepo  repositories.ProfileRepository
	orderRepo    repositories.OrderRepository
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	categoryRepo repositories.CategoryRepository,
) *AdminService {
	return &AdminService{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Profiles lists every profile, or those whose username matches the query.
func (s *AdminService) Profiles(query string) ([]models.Profile, error) {
	if query == "" {
		return s.profileRepo.GetAll()
	}
	users, err := s.userRepo.SearchByUsername(query)
	if err != nil {
		return nil, err
	}
	var profiles []models.Profile
	for _, user := range users {
		profile, err := s.profileRepo.GetByUserID(user.ID)
		if err != nil {
			continue // account without a profile, nothing to moderate
		}
		profiles = append(profiles, *profile)
	}
	return profiles, nil
}

// GetProfile retrieves a profile by id with its user account.
func (s *AdminService) GetProfile(id string) (*models.Profile, error) {
	return s.profileRepo.GetByID(id)
}

// UpdateProfile edits a profile's contact fields and activity flag. Role
// changes are refused here; they go through SetRole.
func (s *AdminService) UpdateProfile(profile *models.Profile) error {
	return s.profileRepo.Update(profile)
}

// SetRole grants or revokes moderator membership. This is the explicit
// role-assignment operation; nothing else writes the admin flag.
func (s *AdminService) SetRole(profileID string, admin bool) error {
	return s.profileRepo.SetAdmin(profileID, admin)
}

// Orders lists all authenticated and guest orders.
func (s *AdminService) Orders() ([]models.Order, []models.GuestOrder, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, nil, err
	}
	guestOrders, err := s.orderRepo.GetAllGuest()
	if err != nil {
		return nil, nil, err
	}
	return orders, guestOrders, nil
}

// GetOrder retrieves an authenticated order by id.
func (s *AdminService) GetOrder(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetGuestOrder retrieves a guest order by id.
func (s *AdminService) GetGuestOrder(id string) (*models.GuestOrder, error) {
	return s.orderRepo.GetGuestByID(id)
}

// UpdateOrder edits the mutable fields of an authenticated order.
func (s *AdminService) UpdateOrder(order *models.Order) error {
	return s.orderRepo.Update(order)
}

// UpdateGuestOrder edits the mutable fields of a guest order.
func (s *AdminService) UpdateGuestOrder(order *models.GuestOrder) error {
	return s.orderRepo.UpdateGuest(order)
}

// Products lists the full catalogue, inactive products included.
func (s *AdminService) Products() ([]models.Product, error) {
	return s.productRepo.GetAll()
}

// GetProduct retrieves a product by id, active or not.
func (s *AdminService) GetProduct(id string) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// CreateProduct adds a product to the catalogue.
func (s *AdminService) CreateProduct(product *models.Product) error {
	if product.Price < 0 {
		return fmt.Errorf("product price must not be negative")
	}
	product.Active = true
	return s.productRepo.Create(product)
}

// UpdateProduct edits a product.
func (s *AdminService) UpdateProduct(product *models.Product) error {
	if product.Price < 0 {
		return fmt.Errorf("product price must not be negative")
	}
	return s.productRepo.Update(product)
}

// DeleteProduct soft-deletes a product by flipping its active flag; placed
// orders keep referencing it.
func (s *AdminService) DeleteProduct(id string) error {
	return s.productRepo.SetActive(id, false)
}

// AddProductImage attaches an uploaded image path to a product.
func (s *AdminService) AddProductImage(productID, path string) (*models.ProductImage, error) {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, err
	}
	image := &models.ProductImage{ProductID: productID, Path: path}
	if err := s.productRepo.AddImage(image); err != nil {
		return nil, err
	}
	return image, nil
}

// Categories lists active categories, or those matching the query.
func (s *AdminService) Categories(query string) ([]models.Category, error) {
	if query == "" {
		return s.categoryRepo.GetActive()
	}
	return s.categoryRepo.SearchByName(query)
}

// CreateCategory adds a catalogue category.
func (s *AdminService) CreateCategory(category *models.Category) error {
	category.Active = true
	return s.categoryRepo.Create(category)
}

// GetCategory retrieves a category by id, active or not.
func (s *AdminService) GetCategory(id string) (*models.Category, error) {
	return s.categoryRepo.GetByID(id)
}

// UpdateCategory renames a category.
func (s *AdminService) UpdateCategory(category *models.Category) error {
	return s.categoryRepo.Update(category)
}

// DeleteCategory soft-deletes a category by flipping its active flag.
func (s *AdminService) DeleteCategory(id string) error {
	return s.categoryRepo.SetActive(id, false)
}
