package services

import (
	"fmt"

	"market/internal/models"
	"market/internal/repositories"
)

const featuredLimit = 10

// CatalogService handles storefront reads of the catalogue plus reviews.
type CatalogService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	reviewRepo   repositories.ReviewRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	productRepo repositories.ProductRepository,
	categoryRepo repositories.CategoryRepository,
	reviewRepo repositories.ReviewRepository,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
	}
}

// Browse retrieves active products matching the filter.
func (s *CatalogService) Browse(filter repositories.CatalogFilter) ([]models.Product, error) {
	return s.productRepo.Search(filter)
}

// Featured retrieves the homepage promotion products.
func (s *CatalogService) Featured() ([]models.Product, error) {
	return s.productRepo.Featured(featuredLimit)
}

// Categories retrieves the active categories for the catalogue navigation.
func (s *CatalogService) Categories() ([]models.Category, error) {
	return s.categoryRepo.GetActive()
}

// GetProduct retrieves a product with its images and reviews.
func (s *CatalogService) GetProduct(id string) (*models.Product, []models.ProductImage, []models.Review, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, nil, nil, err
	}
	images, err := s.productRepo.Images(id)
	if err != nil {
		return nil, nil, nil, err
	}
	reviews, err := s.reviewRepo.ForProduct(id)
	if err != nil {
		return nil, nil, nil, err
	}
	return product, images, reviews, nil
}

// AddReview attaches feedback to a product on behalf of a profile. Only
// authenticated customers may review.
func (s *CatalogService) AddReview(authorID, productID, body string) (*models.Review, error) {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, err
	}
	review := &models.Review{
		ProductID: productID,
		AuthorID:  authorID,
		Body:      body,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, fmt.Errorf("failed to add review: %w", err)
	}
	return review, nil
}

// DeleteReview removes a review, rolling the product's review counters back.
func (s *CatalogService) DeleteReview(id string) error {
	return s.reviewRepo.Delete(id)
}
