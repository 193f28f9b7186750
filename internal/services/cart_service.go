package services

import (
	"errors"
	"fmt"

	"market/internal/models"
	"market/internal/repositories"
)

// CartService handles line-item mutations for both the authenticated cart
// and the session-keyed guest cart. Adding an already-carted product grows
// its quantity rather than creating a second line; dropping a quantity to
// zero or below deletes the line.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart retrieves a profile's cart with its line items.
func (s *CartService) GetCart(profileID string) (*models.Cart, []models.CartItem, error) {
	cart, err := s.cartRepo.GetByProfileID(profileID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.cartRepo.Items(cart.ID)
	if err != nil {
		return nil, nil, err
	}
	return cart, items, nil
}

// AddItem puts qty of a product into a profile's cart.
func (s *CartService) AddItem(profileID, productID string, qty int) (*models.CartItem, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, fmt.Errorf("product %s is not available", productID)
	}

	cart, err := s.cartRepo.GetByProfileID(profileID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.FindItem(cart.ID, productID)
	switch {
	case err == nil:
		item.Quantity += qty
	case errors.Is(err, repositories.ErrItemNotFound):
		item = &models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  qty,
		}
	default:
		return nil, err
	}
	if err := s.cartRepo.SaveItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// AdjustItem changes a line item's quantity by delta. The line is deleted
// when the result drops to zero or below.
func (s *CartService) AdjustItem(profileID, itemID string, delta int) error {
	item, err := s.ownedItem(profileID, itemID)
	if err != nil {
		return err
	}

	item.Quantity += delta
	if item.Quantity <= 0 {
		return s.cartRepo.DeleteItem(item)
	}
	return s.cartRepo.SaveItem(item)
}

// RemoveItem deletes a line item from a profile's cart.
func (s *CartService) RemoveItem(profileID, itemID string) error {
	item, err := s.ownedItem(profileID, itemID)
	if err != nil {
		return err
	}
	return s.cartRepo.DeleteItem(item)
}

// ownedItem loads a line item and verifies it belongs to the profile's cart.
func (s *CartService) ownedItem(profileID, itemID string) (*models.CartItem, error) {
	item, err := s.cartRepo.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	cart, err := s.cartRepo.GetByProfileID(profileID)
	if err != nil {
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, ErrAccessDenied
	}
	return item, nil
}

// GetGuestCart retrieves a session's guest cart lines and their sum.
func (s *CartService) GetGuestCart(sessionKey string) ([]models.GuestCartItem, int64, error) {
	items, err := s.cartRepo.GuestItems(sessionKey)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.cartRepo.GuestTotal(sessionKey)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// AddGuestItem puts qty of a product into a session's guest cart.
func (s *CartService) AddGuestItem(sessionKey, productID string, qty int) (*models.GuestCartItem, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, fmt.Errorf("product %s is not available", productID)
	}

	item, err := s.cartRepo.FindGuestItem(sessionKey, productID)
	switch {
	case err == nil:
		item.Quantity += qty
	case errors.Is(err, repositories.ErrItemNotFound):
		item = &models.GuestCartItem{
			SessionKey: sessionKey,
			ProductID:  productID,
			Quantity:   qty,
		}
	default:
		return nil, err
	}
	if err := s.cartRepo.SaveGuestItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// AdjustGuestItem changes a guest line item's quantity by delta, deleting
// the line when the result drops to zero or below.
func (s *CartService) AdjustGuestItem(sessionKey, itemID string, delta int) error {
	item, err := s.ownedGuestItem(sessionKey, itemID)
	if err != nil {
		return err
	}

	item.Quantity += delta
	if item.Quantity <= 0 {
		return s.cartRepo.DeleteGuestItem(item)
	}
	return s.cartRepo.SaveGuestItem(item)
}

// RemoveGuestItem deletes a line item from a session's guest cart.
func (s *CartService) RemoveGuestItem(sessionKey, itemID string) error {
	item, err := s.ownedGuestItem(sessionKey, itemID)
	if err != nil {
		return err
	}
	return s.cartRepo.DeleteGuestItem(item)
}

func (s *CartService) ownedGuestItem(sessionKey, itemID string) (*models.GuestCartItem, error) {
	item, err := s.cartRepo.GetGuestItem(itemID)
	if err != nil {
		return nil, err
	}
	if item.SessionKey != sessionKey {
		return nil, ErrAccessDenied
	}
	return item, nil
}
