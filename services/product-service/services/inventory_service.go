package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/shopping-backend/services/common/errors"

	"github.com/yashrajoria/shopping-backend/services/product-service/cache"
	"github.com/yashrajoria/shopping-backend/services/product-service/models"
	"github.com/yashrajoria/shopping-backend/services/product-service/repository"
)

type InventoryService interface {
	GetInventory(ctx context.Context, productID uint) (*models.InventoryResponse, error)
	UpdateInventory(ctx context.Context, productID uint, req *models.InventoryUpdateRequest) (*models.InventoryResponse, error)
}

type inventoryServiceImpl struct {
	products  repository.ProductRepository
	inventory repository.InventoryRepository
	cache     *cache.Cache
	logger    *zap.Logger
}

func NewInventoryService(products repository.ProductRepository, inventory repository.InventoryRepository, c *cache.Cache, logger *zap.Logger) InventoryService {
	return &inventoryServiceImpl{products: products, inventory: inventory, cache: c, logger: logger}
}

func (s *inventoryServiceImpl) GetInventory(ctx context.Context, productID uint) (*models.InventoryResponse, error) {
	if cached, ok := s.cache.GetInventory(ctx, productID); ok {
		return cached, nil
	}
	if err := s.productExists(ctx, productID); err != nil {
		return nil, err
	}
	inv, err := s.inventory.FindByProductID(ctx, productID)
	if errors.Is(err, repository.ErrInventoryNotFound) {
		return nil, apperrors.NotFound("Inventory not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	resp := models.NewInventoryResponse(inv)
	s.cache.SetInventory(ctx, &resp)
	return &resp, nil
}

// UpdateInventory creates the inventory row on first use with a stock of 0
// unless the request sets one.
func (s *inventoryServiceImpl) UpdateInventory(ctx context.Context, productID uint, req *models.InventoryUpdateRequest) (*models.InventoryResponse, error) {
	if req.StockQuantity != nil && *req.StockQuantity < 0 {
		return nil, apperrors.BadRequest("stock_quantity must not be negative")
	}
	if err := s.productExists(ctx, productID); err != nil {
		return nil, err
	}

	inv, err := s.inventory.FindByProductID(ctx, productID)
	switch {
	case errors.Is(err, repository.ErrInventoryNotFound):
		inv = &models.ProductInventory{ProductID: productID}
	case err != nil:
		return nil, apperrors.Internal(err)
	}

	req.Apply(inv)
	if err := s.inventory.Upsert(ctx, inv); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.cache.DeleteInventory(ctx, productID)

	s.logger.Info("Inventory updated",
		zap.Uint("product_id", productID),
		zap.Int("stock_quantity", inv.StockQuantity),
	)
	resp := models.NewInventoryResponse(inv)
	return &resp, nil
}

func (s *inventoryServiceImpl) productExists(ctx context.Context, productID uint) error {
	_, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("Product not found")
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
