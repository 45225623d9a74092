package services_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/shopping-backend/services/common/errors"

	"github.com/yashrajoria/shopping-backend/services/product-service/cache"
	"github.com/yashrajoria/shopping-backend/services/product-service/models"
	"github.com/yashrajoria/shopping-backend/services/product-service/repository"
	"github.com/yashrajoria/shopping-backend/services/product-service/services"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *models.Product) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil {
		p.ProductID = 1
	}
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	args := m.Called(ctx, sku)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	args := m.Called(ctx, offset, limit)
	p, _ := args.Get(0).([]models.Product)
	return p, args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Update(ctx context.Context, p *models.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindByProductID(ctx context.Context, id uint) (*models.ProductInventory, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*models.ProductInventory)
	return inv, args.Error(1)
}

func (m *MockInventoryRepository) Upsert(ctx context.Context, inv *models.ProductInventory) error {
	args := m.Called(ctx, inv)
	if args.Error(0) == nil && inv.InventoryID == 0 {
		inv.InventoryID = 10
	}
	return args.Error(0)
}

// memRedis is enough of Redis for the cache.
type memRedis map[string]string

func (m memRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m memRedis) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	if b, ok := value.([]byte); ok {
		m[key] = string(b)
	}
	return redis.NewStatusResult("OK", nil)
}

func (m memRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(m, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m memRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	n, _ := strconv.ParseInt(m[key], 10, 64)
	m[key] = strconv.FormatInt(n+1, 10)
	return redis.NewIntResult(n+1, nil)
}

func newCache() *cache.Cache {
	return cache.New(memRedis{}, cache.TTLs{Product: time.Minute, List: time.Minute, Inventory: time.Minute}, zap.NewNop())
}

var price = decimal.RequireFromString("4.99")

func TestCreateProduct(t *testing.T) {
	repo := new(MockProductRepository)
	svc := services.NewProductService(repo, nil, zap.NewNop())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(nil)

	p, err := svc.CreateProduct(ctx, &models.CreateProductRequest{SKU: " MUG-1 ", Name: "Mug", Price: price})
	require.NoError(t, err)
	assert.Equal(t, uint(1), p.ProductID)
	assert.Equal(t, "MUG-1", p.SKU)
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	repo := new(MockProductRepository)
	svc := services.NewProductService(repo, nil, zap.NewNop())
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicateSKU)

	_, err := svc.CreateProduct(ctx, &models.CreateProductRequest{SKU: "MUG-1", Name: "Mug", Price: price})
	assert.True(t, apperrors.Is(err, http.StatusConflict))
}

func TestGetProduct_ReadsThroughCache(t *testing.T) {
	repo := new(MockProductRepository)
	svc := services.NewProductService(repo, newCache(), zap.NewNop())
	ctx := context.Background()

	repo.On("FindByID", ctx, uint(1)).Return(&models.Product{ProductID: 1, SKU: "MUG-1", Name: "Mug", Price: price}, nil).Once()

	first, err := svc.GetProduct(ctx, 1)
	require.NoError(t, err)
	second, err := svc.GetProduct(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, first.SKU, second.SKU)
	assert.True(t, second.Price.Equal(price))
	repo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := new(MockProductRepository)
	svc := services.NewProductService(repo, newCache(), zap.NewNop())
	ctx := context.Background()

	repo.On("FindByID", ctx, uint(9)).Return(nil, repository.ErrNotFound)

	_, err := svc.GetProduct(ctx, 9)
	assert.True(t, apperrors.Is(err, http.StatusNotFound))
}

func TestListProducts_CachedUntilWrite(t *testing.T) {
	repo := new(MockProductRepository)
	svc := services.NewProductService(repo, newCache(), zap.NewNop())
	ctx := context.Background()

	repo.On("List", ctx, 10, 10).Return([]models.Product{{ProductID: 11, SKU: "S11", Price: price}}, int64(11), nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	list, err := svc.ListProducts(ctx, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(11), list.Total)
	assert.Equal(t, 2, list.Page)
	require.Len(t, list.Products, 1)

	_, err = svc.ListProducts(ctx, 2, 10)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 1)

	_, err = svc.CreateProduct(ctx, &models.CreateProductRequest{SKU: "S12", Name: "New", Price: price})
	require.NoError(t, err)

	_, err = svc.ListProducts(ctx, 2, 10)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 2)
}

func TestUpdateProduct_EvictsCachedProduct(t *testing.T) {
	repo := new(MockProductRepository)
	svc := services.NewProductService(repo, newCache(), zap.NewNop())
	ctx := context.Background()

	stored := &models.Product{ProductID: 1, SKU: "MUG-1", Name: "Mug", Price: price}
	repo.On("FindByID", ctx, uint(1)).Return(stored, nil)
	repo.On("Update", ctx, stored).Return(nil)

	_, err := svc.GetProduct(ctx, 1)
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("5.49")
	updated, err := svc.UpdateProduct(ctx, 1, &models.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))

	got, err := svc.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(newPrice))
	repo.AssertNumberOfCalls(t, "FindByID", 3)
}

func TestUpdateProduct_BlankName(t *testing.T) {
	repo := new(MockProductRepository)
	svc := services.NewProductService(repo, nil, zap.NewNop())

	name := "  "
	_, err := svc.UpdateProduct(context.Background(), 1, &models.UpdateProductRequest{Name: &name})
	assert.True(t, apperrors.Is(err, http.StatusBadRequest))
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestDeleteProduct(t *testing.T) {
	repo := new(MockProductRepository)
	svc := services.NewProductService(repo, newCache(), zap.NewNop())
	ctx := context.Background()

	repo.On("Delete", ctx, uint(1)).Return(true, nil)
	repo.On("Delete", ctx, uint(2)).Return(false, nil)
	repo.On("Delete", ctx, uint(3)).Return(false, errors.New("db gone"))

	assert.NoError(t, svc.DeleteProduct(ctx, 1))
	assert.True(t, apperrors.Is(svc.DeleteProduct(ctx, 2), http.StatusNotFound))
	assert.True(t, apperrors.Is(svc.DeleteProduct(ctx, 3), http.StatusInternalServerError))
}

func TestUpdateInventory_CreatesOnFirstUse(t *testing.T) {
	products := new(MockProductRepository)
	inventory := new(MockInventoryRepository)
	svc := services.NewInventoryService(products, inventory, newCache(), zap.NewNop())
	ctx := context.Background()

	products.On("FindByID", ctx, uint(1)).Return(&models.Product{ProductID: 1}, nil)
	inventory.On("FindByProductID", ctx, uint(1)).Return(nil, repository.ErrInventoryNotFound)
	inventory.On("Upsert", ctx, mock.AnythingOfType("*models.ProductInventory")).Return(nil)

	loc := "A1"
	inv, err := svc.UpdateInventory(ctx, 1, &models.InventoryUpdateRequest{WarehouseLocation: &loc})
	require.NoError(t, err)
	assert.Equal(t, uint(10), inv.InventoryID)
	assert.Equal(t, uint(1), inv.ProductID)
	assert.Equal(t, 0, inv.StockQuantity)
	assert.Equal(t, "A1", inv.WarehouseLocation)
}

func TestUpdateInventory_EvictsCachedInventory(t *testing.T) {
	products := new(MockProductRepository)
	inventory := new(MockInventoryRepository)
	svc := services.NewInventoryService(products, inventory, newCache(), zap.NewNop())
	ctx := context.Background()

	stored := &models.ProductInventory{InventoryID: 10, ProductID: 1, StockQuantity: 5}
	products.On("FindByID", ctx, uint(1)).Return(&models.Product{ProductID: 1}, nil)
	inventory.On("FindByProductID", ctx, uint(1)).Return(stored, nil)
	inventory.On("Upsert", ctx, stored).Return(nil)

	got, err := svc.GetInventory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity)

	qty := 2
	_, err = svc.UpdateInventory(ctx, 1, &models.InventoryUpdateRequest{StockQuantity: &qty})
	require.NoError(t, err)

	got, err = svc.GetInventory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, got.StockQuantity)
	inventory.AssertNumberOfCalls(t, "FindByProductID", 3)
}

func TestInventory_UnknownProduct(t *testing.T) {
	products := new(MockProductRepository)
	inventory := new(MockInventoryRepository)
	svc := services.NewInventoryService(products, inventory, nil, zap.NewNop())
	ctx := context.Background()

	products.On("FindByID", ctx, uint(9)).Return(nil, repository.ErrNotFound)

	_, err := svc.GetInventory(ctx, 9)
	assert.True(t, apperrors.Is(err, http.StatusNotFound))

	qty := 1
	_, err = svc.UpdateInventory(ctx, 9, &models.InventoryUpdateRequest{StockQuantity: &qty})
	assert.True(t, apperrors.Is(err, http.StatusNotFound))
	inventory.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestGetInventory_NotStocked(t *testing.T) {
	products := new(MockProductRepository)
	inventory := new(MockInventoryRepository)
	svc := services.NewInventoryService(products, inventory, nil, zap.NewNop())
	ctx := context.Background()

	products.On("FindByID", ctx, uint(1)).Return(&models.Product{ProductID: 1}, nil)
	inventory.On("FindByProductID", ctx, uint(1)).Return(nil, repository.ErrInventoryNotFound)

	_, err := svc.GetInventory(ctx, 1)
	assert.True(t, apperrors.Is(err, http.StatusNotFound))
}

func TestUpdateInventory_NegativeStock(t *testing.T) {
	products := new(MockProductRepository)
	svc := services.NewInventoryService(products, new(MockInventoryRepository), nil, zap.NewNop())

	qty := -1
	_, err := svc.UpdateInventory(context.Background(), 1, &models.InventoryUpdateRequest{StockQuantity: &qty})
	assert.True(t, apperrors.Is(err, http.StatusBadRequest))
	products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
