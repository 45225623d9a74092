package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/shopping-backend/services/common/errors"

	"github.com/yashrajoria/shopping-backend/services/cart-service/models"
	"github.com/yashrajoria/shopping-backend/services/cart-service/repository"
)

// CartService is the cart business logic behind the REST surface.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.CartResponse, error)
	AddItem(ctx context.Context, userID string, req *models.AddItemRequest) (*models.CartItemResponse, error)
	UpdateItem(ctx context.Context, userID string, productID int64, quantity int) (*models.CartItemResponse, error)
	RemoveItem(ctx context.Context, userID string, productID int64) error
	ClearCart(ctx context.Context, userID string) error
}

type cartServiceImpl struct {
	repo   repository.CartRepository
	logger *zap.Logger
}

func NewCartService(repo repository.CartRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{repo: repo, logger: logger}
}

// GetCart returns the cart with per-line subtotals and totals rounded to cents.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*models.CartResponse, error) {
	items, err := s.repo.GetUserCart(ctx, userID)
	if err != nil {
		s.logger.Error("GetCart failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Internal(fmt.Errorf("failed to retrieve cart: %w", err))
	}

	resp := &models.CartResponse{UserID: userID, Items: make([]models.CartItemResponse, 0, len(items))}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
		resp.TotalItems += it.Quantity
		resp.Items = append(resp.Items, models.NewCartItemResponse(it))
	}
	resp.TotalPrice = models.Amount(total.Round(2))
	return resp, nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, req *models.AddItemRequest) (*models.CartItemResponse, error) {
	item := &models.CartItem{
		UserID:      userID,
		ItemID:      models.ItemIDFor(req.ProductID),
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Price:       req.Price,
	}
	if err := s.repo.AddItem(ctx, item); err != nil {
		s.logger.Error("AddItem failed", zap.String("user_id", userID), zap.Int64("product_id", req.ProductID), zap.Error(err))
		return nil, apperrors.Internal(fmt.Errorf("failed to add item to cart: %w", err))
	}

	s.logger.Info("Item added to cart", zap.String("user_id", userID), zap.Int64("product_id", req.ProductID))
	resp := models.NewCartItemResponse(*item)
	return &resp, nil
}

func (s *cartServiceImpl) UpdateItem(ctx context.Context, userID string, productID int64, quantity int) (*models.CartItemResponse, error) {
	item, err := s.repo.UpdateQuantity(ctx, userID, productID, quantity)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(fmt.Sprintf("Item with product_id %d not found in cart", productID))
	}
	if err != nil {
		s.logger.Error("UpdateItem failed", zap.String("user_id", userID), zap.Int64("product_id", productID), zap.Error(err))
		return nil, apperrors.Internal(fmt.Errorf("failed to update item: %w", err))
	}

	resp := models.NewCartItemResponse(*item)
	return &resp, nil
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID string, productID int64) error {
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		s.logger.Error("RemoveItem failed", zap.String("user_id", userID), zap.Int64("product_id", productID), zap.Error(err))
		return apperrors.Internal(fmt.Errorf("failed to remove item: %w", err))
	}
	s.logger.Info("Removed product from cart", zap.String("user_id", userID), zap.Int64("product_id", productID))
	return nil
}

func (s *cartServiceImpl) ClearCart(ctx context.Context, userID string) error {
	if err := s.repo.ClearCart(ctx, userID); err != nil {
		s.logger.Error("ClearCart failed", zap.String("user_id", userID), zap.Error(err))
		return apperrors.Internal(fmt.Errorf("failed to clear cart: %w", err))
	}
	s.logger.Info("Cleared cart", zap.String("user_id", userID))
	return nil
}
