package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"market/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	images   map[string][]models.ProductImage
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
		images:   make(map[string][]models.ProductImage),
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		productList = append(productList, product)
	}
	return productList, nil
}

// Search filters active products the same way the GORM implementation does.
func (r *MockProductRepository) Search(filter CatalogFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Product
	query := strings.ToLower(filter.Query)
	for _, p := range r.products {
		if !p.Active {
			continue
		}
		if filter.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != filter.CategoryID) {
			continue
		}
		if filter.MinPrice > 0 && p.Price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && p.Price > filter.MaxPrice {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		if filter.WithReviews && !p.HasReviews {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		if filter.SortBy == "price" {
			return matched[i].Price < matched[j].Price
		}
		return matched[i].Name < matched[j].Name
	})
	return matched, nil
}

// Featured returns up to limit active products flagged for the homepage.
func (r *MockProductRepository) Featured(limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var featured []models.Product
	for _, p := range r.products {
		if p.Limited && p.Active {
			featured = append(featured, p)
		}
	}
	if len(featured) > limit {
		featured = featured[:limit]
	}
	return featured, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s not found", id)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update replaces an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %s not found for update", product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

// SetActive flips the soft-delete flag of a product.
func (r *MockProductRepository) SetActive(id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s not found", id)
	}
	product.Active = active
	r.products[id] = product
	return nil
}

// AddImage attaches an image path to a product.
func (r *MockProductRepository) AddImage(image *models.ProductImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	r.images[image.ProductID] = append(r.images[image.ProductID], *image)
	return nil
}

// Images returns the image paths attached to a product.
func (r *MockProductRepository) Images(productID string) ([]models.ProductImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.images[productID], nil
}
