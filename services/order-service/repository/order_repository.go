package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yashrajoria/shopping-backend/services/order-service/models"
)

var ErrNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// Create persists the order and its items in one transaction.
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, orderID uint) (*models.Order, error)
	List(ctx context.Context, skip, limit int) ([]models.Order, error)
	ListByUser(ctx context.Context, userID uint, skip, limit int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error)
	// Delete removes the order and its items. It reports false when no order matched.
	Delete(ctx context.Context, orderID uint) (bool, error)
	Items(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	Ping(ctx context.Context) error
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("order_item_id ASC")
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.OrderID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
}

func (r *GormOrderRepository) FindByID(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		First(&order, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) List(ctx context.Context, skip, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Order("order_id ASC").
		Offset(skip).
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) ListByUser(ctx context.Context, userID uint, skip, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("user_id = ?", userID).
		Order("order_id ASC").
		Offset(skip).
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, orderID)
}

var errNoOrder = errors.New("no order deleted")

func (r *GormOrderRepository) Delete(ctx context.Context, orderID uint) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("order_id = ?", orderID).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNoOrder
		}
		return nil
	})
	if errors.Is(err, errNoOrder) {
		return false, nil
	}
	return err == nil, err
}

func (r *GormOrderRepository) Items(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("order_item_id ASC").
		Find(&items).Error
	return items, err
}

func (r *GormOrderRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
