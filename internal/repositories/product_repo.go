package repositories

import (
	"market/internal/models"
)

// CatalogFilter narrows a catalogue listing. Zero values mean "no
// constraint" except MaxPrice, where 0 also means unbounded.
type CatalogFilter struct {
	CategoryID  string
	MinPrice    int64
	MaxPrice    int64
	Query       string // matched against name and description, case-insensitive
	WithReviews bool
	SortBy      string // "price" or "name"; defaults to name
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	Search(filter CatalogFilter) ([]models.Product, error)
	Featured(limit int) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	SetActive(id string, active bool) error
	AddImage(image *models.ProductImage) error
	Images(productID string) ([]models.ProductImage, error)
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetActive() ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	SearchByName(query string) ([]models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	SetActive(id string, active bool) error
}

// ReviewRepository defines the interface for review data access. Create and
// Delete also maintain the parent product's review counters; implementations
// must apply both writes atomically.
type ReviewRepository interface {
	Create(review *models.Review) error
	Delete(id string) error
	ForProduct(productID string) ([]models.Review, error)
}
