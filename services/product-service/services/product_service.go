package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/shopping-backend/services/common/errors"

	"github.com/yashrajoria/shopping-backend/services/product-service/cache"
	"github.com/yashrajoria/shopping-backend/services/product-service/models"
	"github.com/yashrajoria/shopping-backend/services/product-service/repository"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.ProductResponse, error)
	GetProduct(ctx context.Context, productID uint) (*models.ProductResponse, error)
	ListProducts(ctx context.Context, page, pageSize int) (*models.ProductListResponse, error)
	UpdateProduct(ctx context.Context, productID uint, req *models.UpdateProductRequest) (*models.ProductResponse, error)
	DeleteProduct(ctx context.Context, productID uint) error
}

type productServiceImpl struct {
	repo   repository.ProductRepository
	cache  *cache.Cache
	logger *zap.Logger
}

// NewProductService reads through c. c may be nil.
func NewProductService(repo repository.ProductRepository, c *cache.Cache, logger *zap.Logger) ProductService {
	return &productServiceImpl{repo: repo, cache: c, logger: logger}
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.ProductResponse, error) {
	sku := strings.TrimSpace(req.SKU)
	name := strings.TrimSpace(req.Name)
	if sku == "" || name == "" {
		return nil, apperrors.BadRequest("sku and name must not be blank")
	}

	product := &models.Product{
		SKU:         sku,
		Name:        name,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, s.mapError(err)
	}
	s.cache.InvalidateLists(ctx)

	s.logger.Info("Product created", zap.Uint("product_id", product.ProductID), zap.String("sku", sku))
	resp := models.NewProductResponse(product)
	return &resp, nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, productID uint) (*models.ProductResponse, error) {
	if cached, ok := s.cache.GetProduct(ctx, productID); ok {
		return cached, nil
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, s.mapError(err)
	}
	resp := models.NewProductResponse(product)
	s.cache.SetProduct(ctx, &resp)
	return &resp, nil
}

func (s *productServiceImpl) ListProducts(ctx context.Context, page, pageSize int) (*models.ProductListResponse, error) {
	if cached, ok := s.cache.GetList(ctx, page, pageSize); ok {
		return cached, nil
	}
	products, total, err := s.repo.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	list := &models.ProductListResponse{
		Products: make([]models.ProductResponse, 0, len(products)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range products {
		list.Products = append(list.Products, models.NewProductResponse(&products[i]))
	}
	s.cache.SetList(ctx, list)
	return list, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, productID uint, req *models.UpdateProductRequest) (*models.ProductResponse, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperrors.BadRequest("name must not be blank")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, s.mapError(err)
	}

	req.Apply(product)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, s.mapError(err)
	}
	s.cache.DeleteProduct(ctx, productID)
	s.cache.InvalidateLists(ctx)

	s.logger.Info("Product updated", zap.Uint("product_id", productID))
	resp := models.NewProductResponse(product)
	return &resp, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, productID uint) error {
	deleted, err := s.repo.Delete(ctx, productID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !deleted {
		return apperrors.NotFound("Product not found")
	}
	s.cache.DeleteProduct(ctx, productID)
	s.cache.InvalidateLists(ctx)

	s.logger.Info("Product deleted", zap.Uint("product_id", productID))
	return nil
}

func (s *productServiceImpl) mapError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound("Product not found")
	case errors.Is(err, repository.ErrDuplicateSKU):
		return apperrors.Conflict("Product with this SKU already exists")
	}
	return apperrors.Internal(err)
}
