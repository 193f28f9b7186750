package services_test

import (
	"testing"

	"market/internal/models"
	"market/internal/repositories"
	"market/internal/services"

	"github.com/stretchr/testify/assert"
)

func setupCatalogTest(t *testing.T) (*services.CatalogService, repositories.ProductRepository, repositories.CategoryRepository) {
	t.Helper()
	db := openTestDB(t)
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	return services.NewCatalogService(productRepo, categoryRepo, reviewRepo), productRepo, categoryRepo
}

func TestCatalogService_BrowseFilters(t *testing.T) {
	catalog, productRepo, categoryRepo := setupCatalogTest(t)

	furniture := &models.Category{Name: "Furniture", Active: true}
	assert.NoError(t, categoryRepo.Create(furniture))

	cheap := &models.Product{Name: "Lamp", Price: 100, Active: true, CategoryID: &furniture.ID}
	assert.NoError(t, productRepo.Create(cheap))
	pricey := &models.Product{Name: "Sofa", Price: 5000, Active: true, CategoryID: &furniture.ID}
	assert.NoError(t, productRepo.Create(pricey))
	retired := &models.Product{Name: "Old Desk", Price: 300, Active: false, CategoryID: &furniture.ID}
	assert.NoError(t, productRepo.Create(retired))
	uncategorized := &models.Product{Name: "Poster", Price: 50, Active: true}
	assert.NoError(t, productRepo.Create(uncategorized))

	// Inactive products never show up
	products, err := catalog.Browse(repositories.CatalogFilter{})
	assert.NoError(t, err)
	assert.Len(t, products, 3)

	// Category filter
	products, err = catalog.Browse(repositories.CatalogFilter{CategoryID: furniture.ID})
	assert.NoError(t, err)
	assert.Len(t, products, 2)

	// Price range
	products, err = catalog.Browse(repositories.CatalogFilter{MinPrice: 60, MaxPrice: 1000})
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "Lamp", products[0].Name)

	// Text search over name and description
	products, err = catalog.Browse(repositories.CatalogFilter{Query: "sofa"})
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "Sofa", products[0].Name)

	// Price sort
	products, err = catalog.Browse(repositories.CatalogFilter{SortBy: "price"})
	assert.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Equal(t, "Poster", products[0].Name)
	assert.Equal(t, "Sofa", products[2].Name)
}

func TestCatalogService_Featured(t *testing.T) {
	catalog, productRepo, _ := setupCatalogTest(t)

	for i := 0; i < 12; i++ {
		product := &models.Product{Name: "Featured", Price: 100, Active: true, Limited: true}
		assert.NoError(t, productRepo.Create(product))
	}
	plain := &models.Product{Name: "Plain", Price: 100, Active: true}
	assert.NoError(t, productRepo.Create(plain))

	featured, err := catalog.Featured()
	assert.NoError(t, err)
	assert.Len(t, featured, 10)
	for _, p := range featured {
		assert.True(t, p.Limited)
	}
}

func TestCatalogService_ReviewsMaintainCounters(t *testing.T) {
	catalog, productRepo, _ := setupCatalogTest(t)
	product := &models.Product{Name: "Lamp", Price: 100, Active: true}
	assert.NoError(t, productRepo.Create(product))

	review, err := catalog.AddReview("profile-1", product.ID, "Bright and sturdy")
	assert.NoError(t, err)
	assert.NotEmpty(t, review.ID)

	_, err = catalog.AddReview("profile-2", product.ID, "Cord is too short")
	assert.NoError(t, err)

	reviewed, err := productRepo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.True(t, reviewed.HasReviews)
	assert.Equal(t, int64(2), reviewed.ReviewCount)

	// The reviewed filter now matches
	products, err := catalog.Browse(repositories.CatalogFilter{WithReviews: true})
	assert.NoError(t, err)
	assert.Len(t, products, 1)

	// Deleting rolls the counters back
	assert.NoError(t, catalog.DeleteReview(review.ID))
	reviewed, err = productRepo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), reviewed.ReviewCount)
	assert.True(t, reviewed.HasReviews)

	_, _, reviews, err := catalog.GetProduct(product.ID)
	assert.NoError(t, err)
	assert.Len(t, reviews, 1)

	// Reviewing a missing product is refused
	_, err = catalog.AddReview("profile-1", "no-such-product", "ghost review")
	assert.Error(t, err)
}

func TestCatalogService_GetProduct(t *testing.T) {
	catalog, productRepo, _ := setupCatalogTest(t)
	product := &models.Product{Name: "Lamp", Price: 100, Active: true}
	assert.NoError(t, productRepo.Create(product))
	assert.NoError(t, productRepo.AddImage(&models.ProductImage{ProductID: product.ID, Path: "products/lamp.png"}))

	got, images, reviews, err := catalog.GetProduct(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
	assert.Len(t, images, 1)
	assert.Empty(t, reviews)

	_, _, _, err = catalog.GetProduct("no-such-product")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
