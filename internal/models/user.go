package models

import "gorm.io/gorm"

// User represents a login account of the store.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Profile holds the store-side data attached one-to-one to a User.
// The admin flag gates the moderator console; it only changes through the
// explicit role-assignment operation of the moderator console.
type Profile struct {
	ID     string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID string `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	User   *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Admin  bool   `json:"admin"`
	Active bool   `json:"active"`
	Avatar string `json:"avatar"` // path under the media root, may be empty
	Phone  string `json:"phone" gorm:"type:varchar(20)" validate:"omitempty,max=20"`
	gorm.Model
}
