package services_test

import (
	"log"
	"os"
	"testing"
	"time"

	"market/internal/models"
	"market/internal/repositories"
	"market/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
)

const testJWTSecret = "test_jwt_secret"

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

type authFixture struct {
	auth        *services.AuthService
	carts       *services.CartService
	cartRepo    repositories.CartRepository
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
}

func setupAuthTest(t *testing.T) *authFixture {
	t.Helper()
	db := openTestDB(t)
	userRepo := repositories.NewGORMUserRepository(db)
	profileRepo := repositories.NewGORMProfileRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	return &authFixture{
		auth:        services.NewAuthService(userRepo, profileRepo, cartRepo, orderRepo, testJWTSecret),
		carts:       services.NewCartService(cartRepo, productRepo),
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

func TestAuthService_Register(t *testing.T) {
	f := setupAuthTest(t)

	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}
	profile, err := f.auth.Register(user, "555-0100", "")
	assert.NoError(t, err)
	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, user.ID, profile.UserID)
	assert.True(t, profile.Active)
	assert.False(t, profile.Admin)

	// Registration creates an empty cart for the profile
	cart, err := f.cartRepo.GetByProfileID(profile.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), cart.Total)

	// Test username already taken
	_, err = f.auth.Register(&models.User{
		Username: "testuser",
		Email:    "other@example.com",
		Password: "password123",
	}, "", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "username 'testuser' already taken")

	// Test email already registered
	_, err = f.auth.Register(&models.User{
		Username: "otheruser",
		Email:    "test@example.com",
		Password: "password123",
	}, "", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email 'test@example.com' already registered")
}

func TestAuthService_RegisterAdoptsGuestState(t *testing.T) {
	f := setupAuthTest(t)
	sessionKey := "session-merge"

	lamp := seedProduct(t, f.productRepo, "Lamp", 100)
	chair := seedProduct(t, f.productRepo, "Chair", 250)

	_, err := f.carts.AddGuestItem(sessionKey, lamp.ID, 2)
	assert.NoError(t, err)
	_, err = f.carts.AddGuestItem(sessionKey, chair.ID, 1)
	assert.NoError(t, err)

	guestOrder := &models.GuestOrder{
		SessionKey: sessionKey,
		Status:     models.OrderStatusPaid,
		Total:      100,
		Active:     true,
		Items: []models.GuestOrderItem{
			{ProductID: lamp.ID, Quantity: 1, UnitPrice: 100},
		},
	}
	assert.NoError(t, f.orderRepo.CreateGuest(guestOrder))

	profile, err := f.auth.Register(&models.User{
		Username: "newcomer",
		Email:    "newcomer@example.com",
		Password: "password123",
	}, "", sessionKey)
	assert.NoError(t, err)

	// The guest cart lines are now the account's cart lines
	cart, items, err := f.carts.GetCart(profile.ID)
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2*100+250), cart.Total)

	// The guest order is now in the account's history
	orders, err := f.orderRepo.GetByProfileID(profile.ID)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusPaid, orders[0].Status)
	assert.Len(t, orders[0].Items, 1)
	assert.Equal(t, int64(100), orders[0].Items[0].UnitPrice)

	// No session-keyed rows are left behind
	guestItems, err := f.cartRepo.GuestItems(sessionKey)
	assert.NoError(t, err)
	assert.Empty(t, guestItems)
	guestOrders, err := f.orderRepo.GetBySessionKey(sessionKey)
	assert.NoError(t, err)
	assert.Empty(t, guestOrders)
}

func TestAuthService_Login(t *testing.T) {
	f := setupAuthTest(t)

	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}
	profile, err := f.auth.Register(user, "", "")
	assert.NoError(t, err)

	// Test successful login
	token, err := f.auth.Login("testuser", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := f.auth.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])
	assert.Equal(t, profile.ID, claims["profile_id"])
	assert.Equal(t, false, claims["admin"])

	// Test invalid credentials (wrong password)
	_, err = f.auth.Login("testuser", "wrongpassword")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")

	// Test invalid credentials (user not found)
	_, err = f.auth.Login("nonexistentuser", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestAuthService_ValidateToken(t *testing.T) {
	f := setupAuthTest(t)

	// Test invalid token string
	_, err := f.auth.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = f.auth.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test token signed with another secret
	foreignToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	foreignTokenString, _ := foreignToken.SignedString([]byte("another_secret"))
	_, err = f.auth.ValidateToken(foreignTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}
