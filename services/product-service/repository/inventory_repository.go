package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yashrajoria/shopping-backend/services/product-service/models"
)

type InventoryRepository interface {
	FindByProductID(ctx context.Context, productID uint) (*models.ProductInventory, error)
	// Upsert inserts inv when the product has no inventory row yet and saves it
	// otherwise.
	Upsert(ctx context.Context, inv *models.ProductInventory) error
}

type GormInventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) FindByProductID(ctx context.Context, productID uint) (*models.ProductInventory, error) {
	var inv models.ProductInventory
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInventoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *GormInventoryRepository) Upsert(ctx context.Context, inv *models.ProductInventory) error {
	if inv.InventoryID == 0 {
		return r.db.WithContext(ctx).Create(inv).Error
	}
	return r.db.WithContext(ctx).Save(inv).Error
}
