package repositories

import (
	"errors"

	"market/internal/models"
)

// ErrItemNotFound reports that a cart holds no line for the lookup. Callers
// check for it with errors.Is to tell "not carted yet" apart from an
// infrastructure failure.
var ErrItemNotFound = errors.New("cart item not found")

// CartRepository defines the interface for cart data access, covering both
// the authenticated cart and the session-keyed guest cart.
//
// SaveItem and DeleteItem recompute the owning cart's denormalized total in
// the same transaction as the line-item write, so the total always equals
// the sum of quantity*unit price over the remaining rows. Guest carts have
// no stored total; GuestTotal sums the rows on demand.
type CartRepository interface {
	Create(cart *models.Cart) error
	GetByProfileID(profileID string) (*models.Cart, error)
	Items(cartID string) ([]models.CartItem, error)
	FindItem(cartID, productID string) (*models.CartItem, error)
	GetItem(id string) (*models.CartItem, error)
	SaveItem(item *models.CartItem) error
	DeleteItem(item *models.CartItem) error
	Clear(cartID string) error

	GuestItems(sessionKey string) ([]models.GuestCartItem, error)
	FindGuestItem(sessionKey, productID string) (*models.GuestCartItem, error)
	GetGuestItem(id string) (*models.GuestCartItem, error)
	SaveGuestItem(item *models.GuestCartItem) error
	DeleteGuestItem(item *models.GuestCartItem) error
	GuestTotal(sessionKey string) (int64, error)
	ClearGuest(sessionKey string) error
}
