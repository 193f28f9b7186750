package services_test

import (
	"fmt"
	"testing"

	"market/internal/models"
	"market/internal/repositories"
	"market/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockCartRepository is a mock implementation of repositories.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Create(cart *models.Cart) error {
	args := m.Called(cart)
	return args.Error(0)
}

func (m *MockCartRepository) GetByProfileID(profileID string) (*models.Cart, error) {
	args := m.Called(profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartRepository) Items(cartID string) ([]models.CartItem, error) {
	args := m.Called(cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindItem(cartID, productID string) (*models.CartItem, error) {
	args := m.Called(cartID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *MockCartRepository) GetItem(id string) (*models.CartItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *MockCartRepository) SaveItem(item *models.CartItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteItem(item *models.CartItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockCartRepository) Clear(cartID string) error {
	args := m.Called(cartID)
	return args.Error(0)
}

func (m *MockCartRepository) GuestItems(sessionKey string) ([]models.GuestCartItem, error) {
	args := m.Called(sessionKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GuestCartItem), args.Error(1)
}

func (m *MockCartRepository) FindGuestItem(sessionKey, productID string) (*models.GuestCartItem, error) {
	args := m.Called(sessionKey, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuestCartItem), args.Error(1)
}

func (m *MockCartRepository) GetGuestItem(id string) (*models.GuestCartItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuestCartItem), args.Error(1)
}

func (m *MockCartRepository) SaveGuestItem(item *models.GuestCartItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteGuestItem(item *models.GuestCartItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockCartRepository) GuestTotal(sessionKey string) (int64, error) {
	args := m.Called(sessionKey)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) ClearGuest(sessionKey string) error {
	args := m.Called(sessionKey)
	return args.Error(0)
}

// openTestDB opens a fresh in-memory SQLite database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Review{},
		&models.Cart{},
		&models.CartItem{},
		&models.GuestCartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.GuestOrder{},
		&models.GuestOrderItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func setupCartTest(t *testing.T) (*services.CartService, repositories.CartRepository, repositories.ProductRepository, string) {
	t.Helper()
	db := openTestDB(t)
	cartRepo := repositories.NewGORMCartRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	profileID := "profile-1"
	cart := &models.Cart{ProfileID: profileID}
	assert.NoError(t, cartRepo.Create(cart))

	return services.NewCartService(cartRepo, productRepo), cartRepo, productRepo, profileID
}

func seedProduct(t *testing.T, repo repositories.ProductRepository, name string, price int64) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, Price: price, Active: true}
	assert.NoError(t, repo.Create(product))
	return product
}

func TestCartService_AddItemMergesLines(t *testing.T) {
	cartService, _, productRepo, profileID := setupCartTest(t)
	product := seedProduct(t, productRepo, "Lamp", 100)

	_, err := cartService.AddItem(profileID, product.ID, 2)
	assert.NoError(t, err)
	_, err = cartService.AddItem(profileID, product.ID, 3)
	assert.NoError(t, err)

	cart, items, err := cartService.GetCart(profileID)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, int64(500), cart.Total)

	// A different product gets its own line
	other := seedProduct(t, productRepo, "Chair", 250)
	_, err = cartService.AddItem(profileID, other.ID, 1)
	assert.NoError(t, err)

	cart, items, err = cartService.GetCart(profileID)
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(750), cart.Total)
}

func TestCartService_AddItemRejectsBadInput(t *testing.T) {
	cartService, _, productRepo, profileID := setupCartTest(t)
	product := seedProduct(t, productRepo, "Lamp", 100)

	_, err := cartService.AddItem(profileID, product.ID, 0)
	assert.Error(t, err)
	_, err = cartService.AddItem(profileID, product.ID, -1)
	assert.Error(t, err)

	inactive := &models.Product{Name: "Retired", Price: 50, Active: false}
	assert.NoError(t, productRepo.Create(inactive))
	_, err = cartService.AddItem(profileID, inactive.ID, 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

func TestCartService_TotalTracksCurrentPrice(t *testing.T) {
	cartService, _, productRepo, profileID := setupCartTest(t)
	product := seedProduct(t, productRepo, "Lamp", 100)

	item, err := cartService.AddItem(profileID, product.ID, 2)
	assert.NoError(t, err)

	cart, _, err := cartService.GetCart(profileID)
	assert.NoError(t, err)
	assert.Equal(t, int64(200), cart.Total)

	// A price change is picked up by the next cart write
	product.Price = 150
	assert.NoError(t, productRepo.Update(product))

	assert.NoError(t, cartService.AdjustItem(profileID, item.ID, 1))

	cart, items, err := cartService.GetCart(profileID)
	assert.NoError(t, err)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, int64(450), cart.Total)
}

func TestCartService_AdjustItemToZeroDeletesLine(t *testing.T) {
	cartService, _, productRepo, profileID := setupCartTest(t)
	product := seedProduct(t, productRepo, "Lamp", 100)

	item, err := cartService.AddItem(profileID, product.ID, 2)
	assert.NoError(t, err)

	assert.NoError(t, cartService.AdjustItem(profileID, item.ID, -2))

	cart, items, err := cartService.GetCart(profileID)
	assert.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(0), cart.Total)
}

func TestCartService_RemoveItemOwnership(t *testing.T) {
	cartService, cartRepo, productRepo, profileID := setupCartTest(t)
	product := seedProduct(t, productRepo, "Lamp", 100)

	item, err := cartService.AddItem(profileID, product.ID, 1)
	assert.NoError(t, err)

	// Another profile cannot touch the line
	otherCart := &models.Cart{ProfileID: "profile-2"}
	assert.NoError(t, cartRepo.Create(otherCart))

	err = cartService.RemoveItem("profile-2", item.ID)
	assert.ErrorIs(t, err, services.ErrAccessDenied)

	err = cartService.AdjustItem("profile-2", item.ID, 1)
	assert.ErrorIs(t, err, services.ErrAccessDenied)

	// The owner can
	assert.NoError(t, cartService.RemoveItem(profileID, item.ID))
}

func TestCartService_AddItemPropagatesLookupFailure(t *testing.T) {
	db := openTestDB(t)
	productRepo := repositories.NewGORMProductRepository(db)
	product := seedProduct(t, productRepo, "Lamp", 100)

	cartRepo := new(MockCartRepository)
	cartService := services.NewCartService(cartRepo, productRepo)

	cart := &models.Cart{ID: "cart-1", ProfileID: "profile-1"}
	cartRepo.On("GetByProfileID", "profile-1").Return(cart, nil)

	// A lookup failure that is not "line missing" must surface, not turn
	// into a fresh line that clobbers the carted quantity.
	lookupErr := fmt.Errorf("failed to find cart item: connection refused")
	cartRepo.On("FindItem", cart.ID, product.ID).Return(nil, lookupErr)

	_, err := cartService.AddItem("profile-1", product.ID, 2)
	assert.ErrorIs(t, err, lookupErr)
	cartRepo.AssertNotCalled(t, "SaveItem", mock.Anything)
}

func TestCartService_AddGuestItemPropagatesLookupFailure(t *testing.T) {
	db := openTestDB(t)
	productRepo := repositories.NewGORMProductRepository(db)
	product := seedProduct(t, productRepo, "Lamp", 100)

	cartRepo := new(MockCartRepository)
	cartService := services.NewCartService(cartRepo, productRepo)

	lookupErr := fmt.Errorf("failed to find guest cart item: connection refused")
	cartRepo.On("FindGuestItem", "session-abc", product.ID).Return(nil, lookupErr)

	_, err := cartService.AddGuestItem("session-abc", product.ID, 1)
	assert.ErrorIs(t, err, lookupErr)
	cartRepo.AssertNotCalled(t, "SaveGuestItem", mock.Anything)
}

func TestCartService_AddItemStartsLineOnMissingItem(t *testing.T) {
	db := openTestDB(t)
	productRepo := repositories.NewGORMProductRepository(db)
	product := seedProduct(t, productRepo, "Lamp", 100)

	cartRepo := new(MockCartRepository)
	cartService := services.NewCartService(cartRepo, productRepo)

	cart := &models.Cart{ID: "cart-1", ProfileID: "profile-1"}
	cartRepo.On("GetByProfileID", "profile-1").Return(cart, nil)
	cartRepo.On("FindItem", cart.ID, product.ID).
		Return(nil, fmt.Errorf("product %s not in cart %s: %w", product.ID, cart.ID, repositories.ErrItemNotFound))
	cartRepo.On("SaveItem", mock.AnythingOfType("*models.CartItem")).Return(nil)

	item, err := cartService.AddItem("profile-1", product.ID, 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	cartRepo.AssertExpectations(t)
}

func TestCartService_GuestCart(t *testing.T) {
	cartService, _, productRepo, _ := setupCartTest(t)
	product := seedProduct(t, productRepo, "Lamp", 100)
	sessionKey := "session-abc"

	_, err := cartService.AddGuestItem(sessionKey, product.ID, 1)
	assert.NoError(t, err)
	item, err := cartService.AddGuestItem(sessionKey, product.ID, 2)
	assert.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	items, total, err := cartService.GetGuestCart(sessionKey)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(300), total)

	// A foreign session cannot touch the line
	err = cartService.RemoveGuestItem("session-other", item.ID)
	assert.ErrorIs(t, err, services.ErrAccessDenied)

	assert.NoError(t, cartService.AdjustGuestItem(sessionKey, item.ID, -3))
	items, total, err = cartService.GetGuestCart(sessionKey)
	assert.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(0), total)
}
