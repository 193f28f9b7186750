package models

import "gorm.io/gorm"

// Category groups products. Deleting a category from the moderator console
// only flips Active; products keep pointing at it.
type Category struct {
	ID     string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name   string `json:"name" gorm:"type:varchar(50)" validate:"required,min=1,max=50"`
	Active bool   `json:"active"`
	gorm.Model
}

// Product represents a product in the catalogue. Price is an integer amount
// in the store's minor currency unit.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" gorm:"type:varchar(100)" validate:"required,min=3,max=100"`
	Price       int64     `json:"price" validate:"gte=0"`
	Description string    `json:"description" validate:"omitempty,max=500"`
	TimesBought int64     `json:"times_bought"` // incremented when a paying order confirms
	Active      bool      `json:"active"`
	CategoryID  *string   `json:"category_id,omitempty" gorm:"type:varchar(36)"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	HasReviews  bool      `json:"has_reviews"`
	ReviewCount int64     `json:"review_count"`
	Limited     bool      `json:"limited"` // featured on the homepage
	gorm.Model
}

// ProductImage references an uploaded image by its path under the media root.
type ProductImage struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string `json:"product_id" gorm:"index;type:varchar(36)"`
	Path      string `json:"path"`
	gorm.Model
}
