package models

import "gorm.io/gorm"

// Order lifecycle. An order is created at checkout, moves to pending payment
// when delivery details are submitted, and ends paid or failed. A failed
// order stays retryable: resubmitting payment re-enters pending payment.
const (
	OrderStatusCreated        = "created"
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusFailed         = "failed"
)

// Payment and delivery methods accepted at checkout.
const (
	PaymentMethodCard   = "card"
	PaymentMethodRandom = "random"

	DeliveryMethodCourier = "delivery"
	DeliveryMethodPickup  = "in shop"
)

// Order is an immutable snapshot container for a registered profile's
// purchase. Items carry the price at checkout time; later catalogue price
// changes do not affect placed orders.
type Order struct {
	ID             string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProfileID      string      `json:"profile_id" gorm:"index;type:varchar(36)"`
	Items          []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	Status         string      `json:"status" gorm:"type:varchar(20)"`
	PaymentMethod  string      `json:"payment_method" gorm:"type:varchar(20)"`
	DeliveryMethod string      `json:"delivery_method" gorm:"type:varchar(20)"`
	Total          int64       `json:"total"`
	Name           string      `json:"name"`
	Phone          string      `json:"phone" gorm:"type:varchar(20)"`
	City           string      `json:"city"`
	Address        string      `json:"address"`
	Error          string      `json:"error,omitempty"` // user-visible payment failure message
	Active         bool        `json:"active"`
	gorm.Model
}

// OrderItem is an immutable line of an order: product, quantity, and the
// unit price at the moment the order was created.
type OrderItem struct {
	ID        string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string   `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID string   `json:"product_id" gorm:"type:varchar(36)"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int      `json:"quantity"`
	UnitPrice int64    `json:"unit_price"`
	gorm.Model
}

// GuestOrder mirrors Order for anonymous sessions, keyed by session token.
type GuestOrder struct {
	ID             string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SessionKey     string           `json:"session_key" gorm:"index;type:varchar(36)"`
	Items          []GuestOrderItem `json:"items" gorm:"foreignKey:OrderID"`
	Status         string           `json:"status" gorm:"type:varchar(20)"`
	PaymentMethod  string           `json:"payment_method" gorm:"type:varchar(20)"`
	DeliveryMethod string           `json:"delivery_method" gorm:"type:varchar(20)"`
	Total          int64            `json:"total"`
	Name           string           `json:"name"`
	Phone          string           `json:"phone" gorm:"type:varchar(20)"`
	City           string           `json:"city"`
	Address        string           `json:"address"`
	Error          string           `json:"error,omitempty"`
	Active         bool             `json:"active"`
	gorm.Model
}

// GuestOrderItem mirrors OrderItem for guest orders.
type GuestOrderItem struct {
	ID        string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string   `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID string   `json:"product_id" gorm:"type:varchar(36)"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int      `json:"quantity"`
	UnitPrice int64    `json:"unit_price"`
	gorm.Model
}
