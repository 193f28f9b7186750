package repositories

import "market/internal/models"

// OrderRepository defines the interface for order data access, covering
// authenticated orders and their session-keyed guest counterparts.
//
// ConfirmPayment and ConfirmGuestPayment are the one explicitly transactional
// step of the purchase flow: marking the order paid, emptying the owner's
// cart, and bumping the purchase counter of every snapshot product happen
// all-or-nothing.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByProfileID(profileID string) ([]models.Order, error)
	GetAll() ([]models.Order, error)
	Update(order *models.Order) error
	ConfirmPayment(orderID, cartID string) error

	CreateGuest(order *models.GuestOrder) error
	GetGuestByID(id string) (*models.GuestOrder, error)
	GetBySessionKey(sessionKey string) ([]models.GuestOrder, error)
	GetAllGuest() ([]models.GuestOrder, error)
	UpdateGuest(order *models.GuestOrder) error
	ConfirmGuestPayment(orderID, sessionKey string) error
	DeleteBySessionKey(sessionKey string) error
}
