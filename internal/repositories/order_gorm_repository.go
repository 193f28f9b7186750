package repositories

import (
	"fmt"

	"market/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts an order together with its line-item snapshots.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves an order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("Items.Product").First(&order, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByProfileID retrieves a profile's orders, oldest first.
func (r *GORMOrderRepository) GetByProfileID(profileID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("profile_id = ?", profileID).
		Order("created_at").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for profile %s: %w", profileID, err)
	}
	return orders, nil
}

// GetAll retrieves every authenticated order. Used by the moderator console.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// Update saves the mutable order fields. Line-item snapshots are never
// touched after creation.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	res := r.db.Omit("Items").Save(order)
	if res.Error != nil {
		return fmt.Errorf("failed to update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for update", order.ID)
	}
	return nil
}

// ConfirmPayment marks an order paid, empties the owning cart, and bumps the
// purchase counters of the snapshot products, all in one transaction.
func (r *GORMOrderRepository) ConfirmPayment(orderID, cartID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).Where("id = ?", orderID).
			Updates(map[string]interface{}{"status": models.OrderStatusPaid, "error": ""})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order with ID %s not found", orderID)
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				Update("times_bought", gorm.Expr("times_bought + ?", item.Quantity)).Error
			if err != nil {
				return err
			}
		}

		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).Where("id = ?", cartID).Update("cart_price", 0).Error
	})
	if err != nil {
		return fmt.Errorf("failed to confirm payment for order %s: %w", orderID, err)
	}
	return nil
}

// CreateGuest inserts a guest order together with its line-item snapshots.
func (r *GORMOrderRepository) CreateGuest(order *models.GuestOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create guest order: %w", err)
	}
	return nil
}

// GetGuestByID retrieves a guest order with its items.
func (r *GORMOrderRepository) GetGuestByID(id string) (*models.GuestOrder, error) {
	var order models.GuestOrder
	err := r.db.Preload("Items").Preload("Items.Product").First(&order, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("guest order with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get guest order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetBySessionKey retrieves a session's guest orders, oldest first.
func (r *GORMOrderRepository) GetBySessionKey(sessionKey string) ([]models.GuestOrder, error) {
	var orders []models.GuestOrder
	err := r.db.Preload("Items").Where("session_key = ?", sessionKey).
		Order("created_at").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get guest orders for session: %w", err)
	}
	return orders, nil
}

// GetAllGuest retrieves every guest order. Used by the moderator console.
func (r *GORMOrderRepository) GetAllGuest() ([]models.GuestOrder, error) {
	var orders []models.GuestOrder
	if err := r.db.Preload("Items").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all guest orders: %w", err)
	}
	return orders, nil
}

// UpdateGuest saves the mutable fields of a guest order.
func (r *GORMOrderRepository) UpdateGuest(order *models.GuestOrder) error {
	res := r.db.Omit("Items").Save(order)
	if res.Error != nil {
		return fmt.Errorf("failed to update guest order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("guest order with ID %s not found for update", order.ID)
	}
	return nil
}

// ConfirmGuestPayment marks a guest order paid, empties the session's guest
// cart, and bumps product purchase counters, all in one transaction.
func (r *GORMOrderRepository) ConfirmGuestPayment(orderID, sessionKey string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.GuestOrder{}).Where("id = ?", orderID).
			Updates(map[string]interface{}{"status": models.OrderStatusPaid, "error": ""})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("guest order with ID %s not found", orderID)
		}

		var items []models.GuestOrderItem
		if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				Update("times_bought", gorm.Expr("times_bought + ?", item.Quantity)).Error
			if err != nil {
				return err
			}
		}

		return tx.Where("session_key = ?", sessionKey).Delete(&models.GuestCartItem{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to confirm payment for guest order %s: %w", orderID, err)
	}
	return nil
}

// DeleteBySessionKey purges a session's guest orders and their items after
// they have been merged into a registered account.
func (r *GORMOrderRepository) DeleteBySessionKey(sessionKey string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var orders []models.GuestOrder
		if err := tx.Where("session_key = ?", sessionKey).Find(&orders).Error; err != nil {
			return err
		}
		for _, order := range orders {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.GuestOrderItem{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("session_key = ?", sessionKey).Delete(&models.GuestOrder{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete guest orders for session: %w", err)
	}
	return nil
}
