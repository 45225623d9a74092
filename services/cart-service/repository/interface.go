package repository

import (
	"context"
	"errors"

	"github.com/yashrajoria/shopping-backend/services/cart-service/models"
)

var ErrNotFound = errors.New("cart item not found")

// CartRepository is the cart store. Implementations: DynamoRepository (default)
// and RedisRepository.
type CartRepository interface {
	GetUserCart(ctx context.Context, userID string) ([]models.CartItem, error)
	// AddItem fills ttl and added_at when absent and overwrites any item with the same key.
	AddItem(ctx context.Context, item *models.CartItem) error
	// UpdateQuantity returns ErrNotFound when the item does not exist.
	UpdateQuantity(ctx context.Context, userID string, productID int64, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, userID string, productID int64) error
	// ClearCart reads the cart then deletes what it read. Items added between
	// the read and the delete survive.
	ClearCart(ctx context.Context, userID string) error
	// Name identifies the backing store for /health.
	Name() string
}
