package repositories

import (
	"fmt"

	"market/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{
		db: db,
	}
}

// GetActive retrieves all active categories.
func (r *GORMCategoryRepository) GetActive() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("active = ?", true).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// GetByID retrieves a single category by its ID.
func (r *GORMCategoryRepository) GetByID(id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("category with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get category by ID %s: %w", id, err)
	}
	return &category, nil
}

// SearchByName retrieves active categories whose name contains the query.
func (r *GORMCategoryRepository) SearchByName(query string) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Where("name LIKE ? AND active = ?", "%"+query+"%", true).Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search categories: %w", err)
	}
	return categories, nil
}

// Create creates a new category.
func (r *GORMCategoryRepository) Create(category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update updates an existing category.
func (r *GORMCategoryRepository) Update(category *models.Category) error {
	res := r.db.Save(category)
	if res.Error != nil {
		return fmt.Errorf("failed to update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category with ID %s not found for update", category.ID)
	}
	return nil
}

// SetActive flips the soft-delete flag of a category.
func (r *GORMCategoryRepository) SetActive(id string, active bool) error {
	res := r.db.Model(&models.Category{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("failed to set category active flag: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category with ID %s not found", id)
	}
	return nil
}
