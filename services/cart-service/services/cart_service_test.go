package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/shopping-backend/services/common/errors"

	"github.com/yashrajoria/shopping-backend/services/cart-service/models"
	"github.com/yashrajoria/shopping-backend/services/cart-service/repository"
	"github.com/yashrajoria/shopping-backend/services/cart-service/services"
)

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetUserCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]models.CartItem)
	return items, args.Error(1)
}

func (m *MockCartRepository) AddItem(ctx context.Context, item *models.CartItem) error {
	args := m.Called(ctx, item)
	if item.AddedAt == "" {
		item.AddedAt = "2026-01-01T00:00:00Z"
	}
	return args.Error(0)
}

func (m *MockCartRepository) UpdateQuantity(ctx context.Context, userID string, productID int64, quantity int) (*models.CartItem, error) {
	args := m.Called(ctx, userID, productID, quantity)
	item, _ := args.Get(0).(*models.CartItem)
	return item, args.Error(1)
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, userID string, productID int64) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *MockCartRepository) ClearCart(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockCartRepository) Name() string { return "mock" }

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGetCart_Totals(t *testing.T) {
	repo := new(MockCartRepository)
	svc := services.NewCartService(repo, zap.NewNop())
	ctx := context.Background()

	repo.On("GetUserCart", ctx, "u1").Return([]models.CartItem{
		{UserID: "u1", ItemID: "ITEM#1", ProductID: 1, ProductName: "pen", Quantity: 3, Price: price("0.10")},
		{UserID: "u1", ItemID: "ITEM#2", ProductID: 2, ProductName: "book", Quantity: 2, Price: price("9.99")},
	}, nil)

	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", cart.UserID)
	assert.Equal(t, 5, cart.TotalItems)
	assert.Equal(t, "20.28", cart.TotalPrice.String())
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "0.30", cart.Items[0].Subtotal.String())
	assert.Equal(t, "19.98", cart.Items[1].Subtotal.String())
}

func TestGetCart_StoreFailure(t *testing.T) {
	repo := new(MockCartRepository)
	svc := services.NewCartService(repo, zap.NewNop())
	repo.On("GetUserCart", mock.Anything, "u1").Return(nil, errors.New("table missing"))

	_, err := svc.GetCart(context.Background(), "u1")
	assert.True(t, apperrors.Is(err, http.StatusInternalServerError))
	assert.ErrorContains(t, err, "table missing")
}

func TestAddItem_BuildsItemKey(t *testing.T) {
	repo := new(MockCartRepository)
	svc := services.NewCartService(repo, zap.NewNop())

	repo.On("AddItem", mock.Anything, mock.MatchedBy(func(it *models.CartItem) bool {
		return it.UserID == "u1" && it.ItemID == "ITEM#42" && it.Quantity == 2
	})).Return(nil)

	resp, err := svc.AddItem(context.Background(), "u1", &models.AddItemRequest{
		ProductID: 42, ProductName: "mug", Quantity: 2, Price: price("4.25"),
	})
	require.NoError(t, err)
	assert.Equal(t, "8.50", resp.Subtotal.String())
	assert.NotEmpty(t, resp.AddedAt)
	repo.AssertExpectations(t)
}

func TestUpdateItem_NotFound(t *testing.T) {
	repo := new(MockCartRepository)
	svc := services.NewCartService(repo, zap.NewNop())
	repo.On("UpdateQuantity", mock.Anything, "u1", int64(9), 2).Return(nil, repository.ErrNotFound)

	_, err := svc.UpdateItem(context.Background(), "u1", 9, 2)
	assert.True(t, apperrors.Is(err, http.StatusNotFound))
}

func TestClearCart(t *testing.T) {
	repo := new(MockCartRepository)
	svc := services.NewCartService(repo, zap.NewNop())
	repo.On("ClearCart", mock.Anything, "u1").Return(nil)

	assert.NoError(t, svc.ClearCart(context.Background(), "u1"))
	repo.AssertExpectations(t)
}
