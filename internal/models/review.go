package models

import "gorm.io/gorm"

// Review is customer feedback on a product. The product's HasReviews and
// ReviewCount counters are kept in step with review rows inside the same
// database transaction as the review write.
type Review struct {
	ID        string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string   `json:"product_id" gorm:"index;type:varchar(36)"`
	AuthorID  string   `json:"author_id" gorm:"type:varchar(36)"`
	Author    *Profile `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Body      string   `json:"body" validate:"required,min=1,max=2000"`
	gorm.Model
}
