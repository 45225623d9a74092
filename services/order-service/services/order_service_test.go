package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/yashrajoria/shopping-backend/services/common/errors"

	"github.com/yashrajoria/shopping-backend/services/order-service/models"
	"github.com/yashrajoria/shopping-backend/services/order-service/publisher"
	"github.com/yashrajoria/shopping-backend/services/order-service/repository"
	"github.com/yashrajoria/shopping-backend/services/order-service/services"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	if args.Error(0) == nil {
		order.OrderID = 1
		order.CreatedAt = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	}
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, orderID uint) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, skip, limit int) ([]models.Order, error) {
	args := m.Called(ctx, skip, limit)
	o, _ := args.Get(0).([]models.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uint, skip, limit int) ([]models.Order, error) {
	args := m.Called(ctx, userID, skip, limit)
	o, _ := args.Get(0).([]models.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, orderID, status)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, orderID uint) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) Items(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]models.OrderItem)
	return items, args.Error(1)
}

func (m *MockOrderRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderEvent(ctx context.Context, evt models.OrderEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockPublisher) Name() string { return "mock" }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func qty(n int) *int { return &n }

func newService(repo repository.OrderRepository, pub publisher.Publisher) services.OrderService {
	return services.NewOrderService(repo, pub, nil, time.Second, zap.NewNop())
}

func TestCreateOrder_TotalIsExact(t *testing.T) {
	repo := new(MockOrderRepository)
	pub := new(MockPublisher)
	svc := newService(repo, pub)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := svc.CreateOrder(ctx, &models.CreateOrderRequest{
		UserID: 7,
		Items: []models.OrderItemRequest{
			{ProductID: 1, Quantity: qty(3), PriceAtOrder: dec("0.10")},
			{ProductID: 2, Quantity: qty(7), PriceAtOrder: dec("0.20")},
			{ProductID: 3, PriceAtOrder: dec("1.01")},
		},
	})
	require.NoError(t, err)

	assert.True(t, dec("2.71").Equal(order.OrderTotal), "got %s", order.OrderTotal)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 1, order.Items[2].Quantity, "quantity defaults to 1")
	pub.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
}

func TestCreateOrder_PublishesPendingEvent(t *testing.T) {
	repo := new(MockOrderRepository)
	pub := new(MockPublisher)
	svc := newService(repo, pub)
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(nil)
	pub.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e models.OrderEvent) bool {
		return e.EventType == "order.pending" && e.UserEmail == "a@b.com" && e.OrderTotal == "19.98"
	})).Return(nil).Once()

	_, err := svc.CreateOrder(ctx, &models.CreateOrderRequest{
		UserID:    7,
		UserEmail: "a@b.com",
		Items:     []models.OrderItemRequest{{ProductID: 1, Quantity: qty(2), PriceAtOrder: dec("9.99")}},
	})
	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestCreateOrder_PublishFailureDoesNotFail(t *testing.T) {
	repo := new(MockOrderRepository)
	pub := new(MockPublisher)
	svc := newService(repo, pub)
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(nil)
	pub.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	order, err := svc.CreateOrder(ctx, &models.CreateOrderRequest{
		UserID:    7,
		UserEmail: "a@b.com",
		Items:     []models.OrderItemRequest{{ProductID: 1, PriceAtOrder: dec("5.00")}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), order.OrderID)
}

func TestCreateOrder_RepositoryError(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := newService(repo, new(MockPublisher))
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(errors.New("connection reset"))

	_, err := svc.CreateOrder(ctx, &models.CreateOrderRequest{
		UserID: 1,
		Items:  []models.OrderItemRequest{{ProductID: 1, PriceAtOrder: dec("1.00")}},
	})
	assert.True(t, apperrors.Is(err, http.StatusInternalServerError))
}

func pendingOrder() *models.Order {
	return &models.Order{
		OrderID:    12,
		UserID:     7,
		Status:     models.StatusPending,
		OrderTotal: dec("19.98"),
		Items:      []models.OrderItem{{OrderItemID: 1, OrderID: 12, ProductID: 1, Quantity: 2, PriceAtOrder: dec("9.99")}},
	}
}

func TestUpdateOrder_EmptyPayload(t *testing.T) {
	repo := new(MockOrderRepository)
	pub := new(MockPublisher)
	svc := newService(repo, pub)
	ctx := context.Background()

	repo.On("FindByID", ctx, uint(12)).Return(pendingOrder(), nil)

	order, err := svc.UpdateOrder(ctx, 12, &models.UpdateOrderRequest{UserEmail: "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
}

func TestUpdateOrder_SameStatus(t *testing.T) {
	repo := new(MockOrderRepository)
	pub := new(MockPublisher)
	svc := newService(repo, pub)
	ctx := context.Background()

	repo.On("FindByID", ctx, uint(12)).Return(pendingOrder(), nil)
	status := models.StatusPending

	_, err := svc.UpdateOrder(ctx, 12, &models.UpdateOrderRequest{Status: &status, UserEmail: "a@b.com"})
	require.NoError(t, err)
	pub.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
}

func TestUpdateOrder_PendingToPaidPublishesOnce(t *testing.T) {
	repo := new(MockOrderRepository)
	pub := new(MockPublisher)
	svc := newService(repo, pub)
	ctx := context.Background()

	paid := pendingOrder()
	paid.Status = models.StatusPaid
	repo.On("FindByID", ctx, uint(12)).Return(pendingOrder(), nil)
	repo.On("UpdateStatus", ctx, uint(12), models.StatusPaid).Return(paid, nil)
	pub.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e models.OrderEvent) bool {
		return e.EventType == "order.paid" && e.OrderTotal == "19.98" && e.Status == models.StatusPaid
	})).Return(nil).Once()

	status := models.StatusPaid
	order, err := svc.UpdateOrder(ctx, 12, &models.UpdateOrderRequest{Status: &status, UserEmail: "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, order.Status)
	pub.AssertNumberOfCalls(t, "PublishOrderEvent", 1)
}

func TestUpdateOrder_NoEmailNoPublish(t *testing.T) {
	repo := new(MockOrderRepository)
	pub := new(MockPublisher)
	svc := newService(repo, pub)
	ctx := context.Background()

	shipped := pendingOrder()
	shipped.Status = models.StatusShipped
	repo.On("FindByID", ctx, uint(12)).Return(pendingOrder(), nil)
	repo.On("UpdateStatus", ctx, uint(12), models.StatusShipped).Return(shipped, nil)

	status := models.StatusShipped
	_, err := svc.UpdateOrder(ctx, 12, &models.UpdateOrderRequest{Status: &status})
	require.NoError(t, err)
	pub.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
}

func TestUpdateOrder_NotFound(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := newService(repo, new(MockPublisher))
	ctx := context.Background()

	repo.On("FindByID", ctx, uint(99)).Return(nil, repository.ErrNotFound)

	status := models.StatusPaid
	_, err := svc.UpdateOrder(ctx, 99, &models.UpdateOrderRequest{Status: &status})
	assert.True(t, apperrors.Is(err, http.StatusNotFound))
}

func TestDeleteOrder(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := newService(repo, new(MockPublisher))
	ctx := context.Background()

	repo.On("Delete", ctx, uint(1)).Return(true, nil)
	repo.On("Delete", ctx, uint(2)).Return(false, nil)

	assert.NoError(t, svc.DeleteOrder(ctx, 1))
	assert.True(t, apperrors.Is(svc.DeleteOrder(ctx, 2), http.StatusNotFound))
}

func TestOrderLifecycle_EndToEnd(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderItem{}))

	pub := new(MockPublisher)
	pub.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)
	svc := newService(repository.NewGormOrderRepository(db), pub)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, &models.CreateOrderRequest{
		UserID: 7,
		Items:  []models.OrderItemRequest{{ProductID: 1, Quantity: qty(2), PriceAtOrder: dec("9.99")}},
	})
	require.NoError(t, err)
	resp := models.NewOrderResponse(created)
	assert.Equal(t, models.StatusPending, resp.Status)
	assert.Equal(t, "19.98", resp.OrderTotal.String())
	require.Len(t, resp.Items, 1)

	status := models.StatusPaid
	_, err = svc.UpdateOrder(ctx, created.OrderID, &models.UpdateOrderRequest{Status: &status, UserEmail: "a@b.com"})
	require.NoError(t, err)

	pub.AssertNumberOfCalls(t, "PublishOrderEvent", 1)
	evt := pub.Calls[0].Arguments.Get(1).(models.OrderEvent)
	assert.Equal(t, "order.paid", evt.EventType)
	assert.Equal(t, "19.98", evt.OrderTotal)
	assert.Equal(t, "a@b.com", evt.UserEmail)
}
