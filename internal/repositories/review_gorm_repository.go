package repositories

import (
	"fmt"

	"market/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

// Create inserts a review and bumps the parent product's review counters in
// the same transaction.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Product{}).Where("id = ?", review.ProductID).Updates(map[string]interface{}{
			"has_reviews":  true,
			"review_count": gorm.Expr("review_count + 1"),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s not found", review.ProductID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// Delete removes a review and decrements the parent product's counters,
// clearing has_reviews when the count reaches zero.
func (r *GORMReviewRepository) Delete(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("review with ID %s not found", id)
			}
			return err
		}
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Product{}).Where("id = ?", review.ProductID).
			Update("review_count", gorm.Expr("review_count - 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.Product{}).
			Where("id = ? AND review_count <= 0", review.ProductID).
			Updates(map[string]interface{}{"has_reviews": false, "review_count": 0}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

// ForProduct retrieves the reviews of a product, newest first.
func (r *GORMReviewRepository) ForProduct(productID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("Author").Where("product_id = ?", productID).
		Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for product %s: %w", productID, err)
	}
	return reviews, nil
}
