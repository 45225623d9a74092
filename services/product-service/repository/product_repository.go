package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yashrajoria/shopping-backend/services/product-service/models"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrDuplicateSKU      = errors.New("sku already exists")
	ErrInventoryNotFound = errors.New("inventory not found")
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, productID uint) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	// List returns one page ordered by product_id and the total row count.
	List(ctx context.Context, offset, limit int) ([]models.Product, int64, error)
	Update(ctx context.Context, product *models.Product) error
	// Delete removes the product and its inventory row.
	Delete(ctx context.Context, productID uint) (bool, error)
	Ping(ctx context.Context) error
}

type GormProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Where("sku = ?", product.SKU).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateSKU
		}
		return translate(tx.Create(product).Error)
	})
}

func (r *GormProductRepository) FindByID(ctx context.Context, productID uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "product_id = ?", productID).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *GormProductRepository) List(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	var (
		products []models.Product
		total    int64
	)
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("product_id ASC").Offset(offset).Limit(limit).Find(&products).Error
	return products, total, err
}

func (r *GormProductRepository) Update(ctx context.Context, product *models.Product) error {
	return translate(r.db.WithContext(ctx).Save(product).Error)
}

func (r *GormProductRepository) Delete(ctx context.Context, productID uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductInventory{}).Error; err != nil {
			return err
		}
		res := tx.Where("product_id = ?", productID).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (r *GormProductRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateSKU
	}
	return err
}
