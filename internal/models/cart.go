package models

import "gorm.io/gorm"

// Cart is the persistent cart of a registered profile. Total is the
// denormalized sum of quantity*unit price over the cart's line items; it is
// recomputed in the same transaction as every line-item write so it cannot
// drift from the rows it summarizes.
type Cart struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProfileID string `json:"profile_id" gorm:"uniqueIndex;type:varchar(36)"`
	Total     int64  `json:"total" gorm:"column:cart_price"`
	gorm.Model
}

// CartItem is a (product, quantity) line in an authenticated cart.
type CartItem struct {
	ID        string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string   `json:"cart_id" gorm:"index;type:varchar(36)"`
	ProductID string   `json:"product_id" gorm:"type:varchar(36)"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int      `json:"quantity"`
	gorm.Model
}

// GuestCartItem is the anonymous counterpart of CartItem, keyed by the
// 128-bit session token instead of a cart row. Guest rows are copied into
// the account cart at registration and deleted afterwards.
type GuestCartItem struct {
	ID         string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SessionKey string   `json:"session_key" gorm:"index;type:varchar(36)"`
	ProductID  string   `json:"product_id" gorm:"type:varchar(36)"`
	Product    *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity   int      `json:"quantity"`
	gorm.Model
}
