package services

import (
	"context"
	"fmt"
	"log"

	"market/internal/models"
	"market/internal/payment"
	"market/internal/repositories"
	"market/pkg/rabbitmq"
)

// OrderDetails carries the delivery and contact fields submitted before
// payment.
type OrderDetails struct {
	PaymentMethod  string `json:"payment_method" validate:"required,oneof=card random"`
	DeliveryMethod string `json:"delivery_method" validate:"required,oneof=delivery 'in shop'"`
	Name           string `json:"name" validate:"omitempty,max=100"`
	Phone          string `json:"phone" validate:"required,max=20"`
	City           string `json:"city" validate:"omitempty,max=100"`
	Address        string `json:"address" validate:"omitempty,max=200"`
}

// CheckoutService drives the order lifecycle: snapshot creation from the
// cart, detail submission, and payment through the configured gateway.
type CheckoutService struct {
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	profileRepo repositories.ProfileRepository
	gateway     payment.Gateway
	mqClient    *rabbitmq.Client
	deliveryFee int64
}

// NewCheckoutService creates a new CheckoutService. mqClient may be nil;
// event publication is then skipped.
func NewCheckoutService(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	profileRepo repositories.ProfileRepository,
	gateway payment.Gateway,
	mqClient *rabbitmq.Client,
	deliveryFee int64,
) *CheckoutService {
	return &CheckoutService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		profileRepo: profileRepo,
		gateway:     gateway,
		mqClient:    mqClient,
		deliveryFee: deliveryFee,
	}
}

// StartCheckout snapshots a profile's cart into a new order. Each line
// records the product's price at this moment; the cart itself is untouched
// until payment succeeds. An empty cart is rejected.
func (s *CheckoutService) StartCheckout(profileID string) (*models.Order, error) {
	cart, err := s.cartRepo.GetByProfileID(profileID)
	if err != nil {
		return nil, err
	}
	items, err := s.cartRepo.Items(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	profile, err := s.profileRepo.GetByID(profileID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ProfileID: profileID,
		Status:    models.OrderStatusCreated,
		Phone:     profile.Phone,
		Active:    true,
	}
	if profile.User != nil {
		order.Name = profile.User.Username
	}
	var total int64
	for _, item := range items {
		unitPrice := item.Product.Price
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		})
		total += unitPrice * int64(item.Quantity)
	}
	order.Total = total

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	s.publish("order.created", map[string]interface{}{
		"order_id":   order.ID,
		"profile_id": order.ProfileID,
		"total":      order.Total,
	})
	return order, nil
}

// StartGuestCheckout snapshots a session's guest cart into a guest order.
func (s *CheckoutService) StartGuestCheckout(sessionKey string) (*models.GuestOrder, error) {
	items, err := s.cartRepo.GuestItems(sessionKey)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := &models.GuestOrder{
		SessionKey: sessionKey,
		Status:     models.OrderStatusCreated,
		Active:     true,
	}
	var total int64
	for _, item := range items {
		unitPrice := item.Product.Price
		order.Items = append(order.Items, models.GuestOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		})
		total += unitPrice * int64(item.Quantity)
	}
	order.Total = total

	if err := s.orderRepo.CreateGuest(order); err != nil {
		return nil, err
	}
	s.publish("order.created", map[string]interface{}{
		"order_id": order.ID,
		"total":    order.Total,
	})
	return order, nil
}

// SubmitDetails records delivery and contact fields on an order and moves it
// to pending payment. The total is rebuilt from the snapshot sum plus the
// delivery surcharge, so resubmission never stacks the fee.
func (s *CheckoutService) SubmitDetails(profileID, orderID string, details OrderDetails) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.ProfileID != profileID {
		return nil, ErrAccessDenied
	}
	if order.Status == models.OrderStatusPaid {
		return nil, fmt.Errorf("order %s is already paid", orderID)
	}

	order.PaymentMethod = details.PaymentMethod
	order.DeliveryMethod = details.DeliveryMethod
	if details.Name != "" {
		order.Name = details.Name
	}
	order.Phone = details.Phone
	order.City = details.City
	order.Address = details.Address
	order.Total = snapshotTotal(order.Items) + s.surcharge(details.DeliveryMethod)
	order.Status = models.OrderStatusPendingPayment

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// SubmitGuestDetails is the guest counterpart of SubmitDetails.
func (s *CheckoutService) SubmitGuestDetails(sessionKey, orderID string, details OrderDetails) (*models.GuestOrder, error) {
	order, err := s.orderRepo.GetGuestByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.SessionKey != sessionKey {
		return nil, ErrAccessDenied
	}
	if order.Status == models.OrderStatusPaid {
		return nil, fmt.Errorf("order %s is already paid", orderID)
	}

	order.PaymentMethod = details.PaymentMethod
	order.DeliveryMethod = details.DeliveryMethod
	if details.Name != "" {
		order.Name = details.Name
	}
	order.Phone = details.Phone
	order.City = details.City
	order.Address = details.Address
	order.Total = guestSnapshotTotal(order.Items) + s.surcharge(details.DeliveryMethod)
	order.Status = models.OrderStatusPendingPayment

	if err := s.orderRepo.UpdateGuest(order); err != nil {
		return nil, err
	}
	return order, nil
}

// Pay runs the payment gateway for an order awaiting payment. On approval
// the order is confirmed and the owner's cart emptied in one transaction;
// on decline the failure is recorded and the order stays retryable.
func (s *CheckoutService) Pay(ctx context.Context, profileID, orderID, cardNumber string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.ProfileID != profileID {
		return nil, ErrAccessDenied
	}
	if order.Status != models.OrderStatusPendingPayment && order.Status != models.OrderStatusFailed {
		return nil, ErrNotPayable
	}

	approved, err := s.gateway.Charge(ctx, cardNumber)
	if err != nil {
		return nil, fmt.Errorf("payment gateway error: %w", err)
	}

	if !approved {
		order.Status = models.OrderStatusFailed
		order.Error = "Payment is failed. Incorrect account data"
		if err := s.orderRepo.Update(order); err != nil {
			return nil, err
		}
		return order, nil
	}

	cart, err := s.cartRepo.GetByProfileID(profileID)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.ConfirmPayment(orderID, cart.ID); err != nil {
		return nil, err
	}
	s.publish("order.paid", map[string]interface{}{
		"order_id":   order.ID,
		"profile_id": order.ProfileID,
		"total":      order.Total,
	})
	return s.orderRepo.GetByID(orderID)
}

// PayGuest is the guest counterpart of Pay.
func (s *CheckoutService) PayGuest(ctx context.Context, sessionKey, orderID, cardNumber string) (*models.GuestOrder, error) {
	order, err := s.orderRepo.GetGuestByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.SessionKey != sessionKey {
		return nil, ErrAccessDenied
	}
	if order.Status != models.OrderStatusPendingPayment && order.Status != models.OrderStatusFailed {
		return nil, ErrNotPayable
	}

	approved, err := s.gateway.Charge(ctx, cardNumber)
	if err != nil {
		return nil, fmt.Errorf("payment gateway error: %w", err)
	}

	if !approved {
		order.Status = models.OrderStatusFailed
		order.Error = "Payment is failed. Incorrect account data"
		if err := s.orderRepo.UpdateGuest(order); err != nil {
			return nil, err
		}
		return order, nil
	}

	if err := s.orderRepo.ConfirmGuestPayment(orderID, sessionKey); err != nil {
		return nil, err
	}
	s.publish("order.paid", map[string]interface{}{
		"order_id": order.ID,
		"total":    order.Total,
	})
	return s.orderRepo.GetGuestByID(orderID)
}

// History retrieves a profile's orders, oldest first.
func (s *CheckoutService) History(profileID string) ([]models.Order, error) {
	return s.orderRepo.GetByProfileID(profileID)
}

// GetOrder retrieves an order, refusing callers that do not own it.
func (s *CheckoutService) GetOrder(profileID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.ProfileID != profileID {
		return nil, ErrAccessDenied
	}
	return order, nil
}

// GetGuestOrder retrieves a guest order, refusing other sessions.
func (s *CheckoutService) GetGuestOrder(sessionKey, orderID string) (*models.GuestOrder, error) {
	order, err := s.orderRepo.GetGuestByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.SessionKey != sessionKey {
		return nil, ErrAccessDenied
	}
	return order, nil
}

// GuestHistory retrieves a session's guest orders, oldest first.
func (s *CheckoutService) GuestHistory(sessionKey string) ([]models.GuestOrder, error) {
	return s.orderRepo.GetBySessionKey(sessionKey)
}

func (s *CheckoutService) surcharge(deliveryMethod string) int64 {
	if deliveryMethod == models.DeliveryMethodCourier {
		return s.deliveryFee
	}
	return 0
}

func (s *CheckoutService) publish(event string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}

func snapshotTotal(items []models.OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

func guestSnapshotTotal(items []models.GuestOrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}
