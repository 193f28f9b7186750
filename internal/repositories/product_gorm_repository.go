package repositories

import (
	"fmt"

	"market/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products, including inactive ones. Used by the
// moderator console; the storefront goes through Search.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Category").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// Search retrieves active products matching the catalogue filter.
func (r *GORMProductRepository) Search(filter CatalogFilter) ([]models.Product, error) {
	q := r.db.Preload("Category").Where("active = ?", true)
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.MinPrice > 0 {
		q = q.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		q = q.Where("price <= ?", filter.MaxPrice)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if filter.WithReviews {
		q = q.Where("has_reviews = ?", true)
	}
	switch filter.SortBy {
	case "price":
		q = q.Order("price")
	default:
		q = q.Order("name")
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// Featured retrieves up to limit active products flagged for the homepage.
func (r *GORMProductRepository) Featured(limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("limited = ? AND active = ?", true, true).Limit(limit).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get featured products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for update", product.ID)
	}
	return nil
}

// SetActive flips the soft-delete flag of a product.
func (r *GORMProductRepository) SetActive(id string, active bool) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("failed to set product active flag: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found", id)
	}
	return nil
}

// AddImage attaches an image path to a product.
func (r *GORMProductRepository) AddImage(image *models.ProductImage) error {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	if err := r.db.Create(image).Error; err != nil {
		return fmt.Errorf("failed to add product image: %w", err)
	}
	return nil
}

// Images retrieves the image paths attached to a product.
func (r *GORMProductRepository) Images(productID string) ([]models.ProductImage, error) {
	var images []models.ProductImage
	if err := r.db.Where("product_id = ?", productID).Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to get images for product %s: %w", productID, err)
	}
	return images, nil
}
