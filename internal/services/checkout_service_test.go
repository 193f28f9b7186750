package services_test

import (
	"context"
	"testing"

	"market/internal/models"
	"market/internal/payment"
	"market/internal/repositories"
	"market/internal/services"

	"github.com/stretchr/testify/assert"
)

const testDeliveryFee = 200

type checkoutFixture struct {
	checkout    *services.CheckoutService
	carts       *services.CartService
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
	profileID   string
}

func setupCheckoutTest(t *testing.T) *checkoutFixture {
	t.Helper()
	db := openTestDB(t)
	cartRepo := repositories.NewGORMCartRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	profileRepo := repositories.NewGORMProfileRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	user := &models.User{Username: "buyer", Email: "buyer@example.com", Password: "hash"}
	assert.NoError(t, userRepo.Create(user))
	profile := &models.Profile{UserID: user.ID, Active: true, Phone: "555-0100"}
	assert.NoError(t, profileRepo.Create(profile))
	assert.NoError(t, cartRepo.Create(&models.Cart{ProfileID: profile.ID}))

	gateway := &payment.Simulator{} // zero delay
	checkout := services.NewCheckoutService(orderRepo, cartRepo, profileRepo, gateway, nil, testDeliveryFee)

	return &checkoutFixture{
		checkout:    checkout,
		carts:       services.NewCartService(cartRepo, productRepo),
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		profileID:   profile.ID,
	}
}

func courierDetails() services.OrderDetails {
	return services.OrderDetails{
		PaymentMethod:  models.PaymentMethodCard,
		DeliveryMethod: models.DeliveryMethodCourier,
		Name:           "Buyer",
		Phone:          "555-0100",
		City:           "Springfield",
		Address:        "12 Main St",
	}
}

func TestCheckoutService_EmptyCartRejected(t *testing.T) {
	f := setupCheckoutTest(t)

	_, err := f.checkout.StartCheckout(f.profileID)
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	_, err = f.checkout.StartGuestCheckout("session-empty")
	assert.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestCheckoutService_SnapshotSurvivesPriceChange(t *testing.T) {
	f := setupCheckoutTest(t)
	product := seedProduct(t, f.productRepo, "Lamp", 100)

	_, err := f.carts.AddItem(f.profileID, product.ID, 2)
	assert.NoError(t, err)

	order, err := f.checkout.StartCheckout(f.profileID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCreated, order.Status)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, int64(100), order.Items[0].UnitPrice)
	assert.Equal(t, int64(200), order.Total)

	// The cart is untouched by checkout
	cart, items, err := f.carts.GetCart(f.profileID)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(200), cart.Total)

	// A later price change does not move the placed order's total
	product.Price = 999
	assert.NoError(t, f.productRepo.Update(product))

	order, err = f.checkout.SubmitDetails(f.profileID, order.ID, courierDetails())
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPendingPayment, order.Status)
	assert.Equal(t, int64(200+testDeliveryFee), order.Total)
}

func TestCheckoutService_SurchargeIsIdempotent(t *testing.T) {
	f := setupCheckoutTest(t)
	product := seedProduct(t, f.productRepo, "Lamp", 100)
	_, err := f.carts.AddItem(f.profileID, product.ID, 1)
	assert.NoError(t, err)

	order, err := f.checkout.StartCheckout(f.profileID)
	assert.NoError(t, err)

	order, err = f.checkout.SubmitDetails(f.profileID, order.ID, courierDetails())
	assert.NoError(t, err)
	assert.Equal(t, int64(100+testDeliveryFee), order.Total)

	// Resubmitting the form does not stack the fee
	order, err = f.checkout.SubmitDetails(f.profileID, order.ID, courierDetails())
	assert.NoError(t, err)
	assert.Equal(t, int64(100+testDeliveryFee), order.Total)

	// Switching to pickup drops it
	details := courierDetails()
	details.DeliveryMethod = models.DeliveryMethodPickup
	order, err = f.checkout.SubmitDetails(f.profileID, order.ID, details)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), order.Total)
}

func TestCheckoutService_PayDeclinedThenRetry(t *testing.T) {
	f := setupCheckoutTest(t)
	product := seedProduct(t, f.productRepo, "Lamp", 100)
	_, err := f.carts.AddItem(f.profileID, product.ID, 2)
	assert.NoError(t, err)

	order, err := f.checkout.StartCheckout(f.profileID)
	assert.NoError(t, err)
	_, err = f.checkout.SubmitDetails(f.profileID, order.ID, courierDetails())
	assert.NoError(t, err)

	// Odd card number is declined; the order stays retryable
	order, err = f.checkout.Pay(context.Background(), f.profileID, order.ID, "13579999")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusFailed, order.Status)
	assert.Equal(t, "Payment is failed. Incorrect account data", order.Error)

	// The cart survives a failed payment
	_, items, err := f.carts.GetCart(f.profileID)
	assert.NoError(t, err)
	assert.Len(t, items, 1)

	// Retry with a good card succeeds
	order, err = f.checkout.Pay(context.Background(), f.profileID, order.ID, "24680000")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Empty(t, order.Error)

	// Payment confirmation empties the cart and bumps the purchase counter
	cart, items, err := f.carts.GetCart(f.profileID)
	assert.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(0), cart.Total)

	bought, err := f.productRepo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), bought.TimesBought)
}

func TestCheckoutService_PayRequiresPendingOrder(t *testing.T) {
	f := setupCheckoutTest(t)
	product := seedProduct(t, f.productRepo, "Lamp", 100)
	_, err := f.carts.AddItem(f.profileID, product.ID, 1)
	assert.NoError(t, err)

	order, err := f.checkout.StartCheckout(f.profileID)
	assert.NoError(t, err)

	// No details submitted yet
	_, err = f.checkout.Pay(context.Background(), f.profileID, order.ID, "24680000")
	assert.ErrorIs(t, err, services.ErrNotPayable)

	_, err = f.checkout.SubmitDetails(f.profileID, order.ID, courierDetails())
	assert.NoError(t, err)
	order, err = f.checkout.Pay(context.Background(), f.profileID, order.ID, "24680000")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)

	// A paid order cannot be paid again or edited
	_, err = f.checkout.Pay(context.Background(), f.profileID, order.ID, "24680000")
	assert.ErrorIs(t, err, services.ErrNotPayable)
	_, err = f.checkout.SubmitDetails(f.profileID, order.ID, courierDetails())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already paid")
}

func TestCheckoutService_OwnershipChecks(t *testing.T) {
	f := setupCheckoutTest(t)
	product := seedProduct(t, f.productRepo, "Lamp", 100)
	_, err := f.carts.AddItem(f.profileID, product.ID, 1)
	assert.NoError(t, err)

	order, err := f.checkout.StartCheckout(f.profileID)
	assert.NoError(t, err)

	_, err = f.checkout.GetOrder("profile-other", order.ID)
	assert.ErrorIs(t, err, services.ErrAccessDenied)
	_, err = f.checkout.SubmitDetails("profile-other", order.ID, courierDetails())
	assert.ErrorIs(t, err, services.ErrAccessDenied)
	_, err = f.checkout.Pay(context.Background(), "profile-other", order.ID, "24680000")
	assert.ErrorIs(t, err, services.ErrAccessDenied)
}

func TestCheckoutService_GuestFlow(t *testing.T) {
	f := setupCheckoutTest(t)
	product := seedProduct(t, f.productRepo, "Lamp", 100)
	sessionKey := "session-guest"

	_, err := f.carts.AddGuestItem(sessionKey, product.ID, 3)
	assert.NoError(t, err)

	order, err := f.checkout.StartGuestCheckout(sessionKey)
	assert.NoError(t, err)
	assert.Equal(t, int64(300), order.Total)
	assert.Len(t, order.Items, 1)

	// A foreign session cannot act on the order
	_, err = f.checkout.SubmitGuestDetails("session-other", order.ID, courierDetails())
	assert.ErrorIs(t, err, services.ErrAccessDenied)

	order, err = f.checkout.SubmitGuestDetails(sessionKey, order.ID, courierDetails())
	assert.NoError(t, err)
	assert.Equal(t, int64(300+testDeliveryFee), order.Total)

	order, err = f.checkout.PayGuest(context.Background(), sessionKey, order.ID, "24680000")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)

	// The guest cart is emptied by the confirmation
	items, total, err := f.carts.GetGuestCart(sessionKey)
	assert.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(0), total)

	history, err := f.checkout.GuestHistory(sessionKey)
	assert.NoError(t, err)
	assert.Len(t, history, 1)
}
