package repositories

import (
	"fmt"

	"market/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// Create creates an empty cart for a profile.
func (r *GORMCartRepository) Create(cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if err := r.db.Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// GetByProfileID retrieves the cart of a profile.
func (r *GORMCartRepository) GetByProfileID(profileID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.First(&cart, "profile_id = ?", profileID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart for profile %s not found", profileID)
		}
		return nil, fmt.Errorf("failed to get cart for profile %s: %w", profileID, err)
	}
	return &cart, nil
}

// Items retrieves the line items of a cart with their products.
func (r *GORMCartRepository) Items(cartID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	return items, nil
}

// FindItem retrieves the line item of a cart for a given product, or a not
// found error when the product is not in the cart yet.
func (r *GORMCartRepository) FindItem(cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product %s not in cart %s: %w", productID, cartID, ErrItemNotFound)
		}
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}
	return &item, nil
}

// GetItem retrieves a line item by its ID.
func (r *GORMCartRepository) GetItem(id string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Preload("Product").First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart item with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get cart item by ID %s: %w", id, err)
	}
	return &item, nil
}

// SaveItem upserts a line item and refreshes the cart total in one
// transaction.
func (r *GORMCartRepository) SaveItem(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return r.recalcTotal(tx, item.CartID)
	})
	if err != nil {
		return fmt.Errorf("failed to save cart item: %w", err)
	}
	return nil
}

// DeleteItem removes a line item and refreshes the cart total in one
// transaction.
func (r *GORMCartRepository) DeleteItem(item *models.CartItem) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(item).Error; err != nil {
			return err
		}
		return r.recalcTotal(tx, item.CartID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

// Clear empties a cart and zeroes its total.
func (r *GORMCartRepository) Clear(cartID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).Where("id = ?", cartID).Update("cart_price", 0).Error
	})
	if err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}

// recalcTotal rewrites the denormalized cart total from the surviving line
// items, priced at the current catalogue price. Runs inside the caller's
// transaction.
func (r *GORMCartRepository) recalcTotal(tx *gorm.DB, cartID string) error {
	var total int64
	err := tx.Model(&models.CartItem{}).
		Select("COALESCE(SUM(cart_items.quantity * products.price), 0)").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.cart_id = ?", cartID).
		Scan(&total).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.Cart{}).Where("id = ?", cartID).Update("cart_price", total).Error
}

// GuestItems retrieves the guest cart line items of a session.
func (r *GORMCartRepository) GuestItems(sessionKey string) ([]models.GuestCartItem, error) {
	var items []models.GuestCartItem
	err := r.db.Preload("Product").Where("session_key = ?", sessionKey).Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get guest cart items: %w", err)
	}
	return items, nil
}

// FindGuestItem retrieves the guest line item of a session for a product.
func (r *GORMCartRepository) FindGuestItem(sessionKey, productID string) (*models.GuestCartItem, error) {
	var item models.GuestCartItem
	err := r.db.First(&item, "session_key = ? AND product_id = ?", sessionKey, productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product %s not in guest cart: %w", productID, ErrItemNotFound)
		}
		return nil, fmt.Errorf("failed to find guest cart item: %w", err)
	}
	return &item, nil
}

// GetGuestItem retrieves a guest line item by its ID.
func (r *GORMCartRepository) GetGuestItem(id string) (*models.GuestCartItem, error) {
	var item models.GuestCartItem
	if err := r.db.Preload("Product").First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("guest cart item with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get guest cart item by ID %s: %w", id, err)
	}
	return &item, nil
}

// SaveGuestItem upserts a guest line item.
func (r *GORMCartRepository) SaveGuestItem(item *models.GuestCartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Save(item).Error; err != nil {
		return fmt.Errorf("failed to save guest cart item: %w", err)
	}
	return nil
}

// DeleteGuestItem removes a guest line item.
func (r *GORMCartRepository) DeleteGuestItem(item *models.GuestCartItem) error {
	if err := r.db.Delete(item).Error; err != nil {
		return fmt.Errorf("failed to delete guest cart item: %w", err)
	}
	return nil
}

// GuestTotal sums quantity*current price over a session's guest cart. Guest
// carts carry no stored total.
func (r *GORMCartRepository) GuestTotal(sessionKey string) (int64, error) {
	var total int64
	err := r.db.Model(&models.GuestCartItem{}).
		Select("COALESCE(SUM(guest_cart_items.quantity * products.price), 0)").
		Joins("JOIN products ON products.id = guest_cart_items.product_id").
		Where("guest_cart_items.session_key = ?", sessionKey).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum guest cart: %w", err)
	}
	return total, nil
}

// ClearGuest removes every guest line item of a session.
func (r *GORMCartRepository) ClearGuest(sessionKey string) error {
	err := r.db.Where("session_key = ?", sessionKey).Delete(&models.GuestCartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear guest cart: %w", err)
	}
	return nil
}
