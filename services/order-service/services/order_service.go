package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/shopping-backend/pkg/aws"
	apperrors "github.com/yashrajoria/shopping-backend/services/common/errors"

	"github.com/yashrajoria/shopping-backend/services/order-service/models"
	"github.com/yashrajoria/shopping-backend/services/order-service/publisher"
	"github.com/yashrajoria/shopping-backend/services/order-service/repository"
)

// OrderService owns the order lifecycle: creation, status transitions and the
// notification each of them emits.
type OrderService interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, orderID uint) (*models.Order, error)
	ListOrders(ctx context.Context, skip, limit int) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uint, skip, limit int) ([]models.Order, error)
	UpdateOrder(ctx context.Context, orderID uint, req *models.UpdateOrderRequest) (*models.Order, error)
	DeleteOrder(ctx context.Context, orderID uint) error
}

type orderServiceImpl struct {
	repo           repository.OrderRepository
	publisher      publisher.Publisher
	metrics        *awspkg.MetricsClient
	publishTimeout time.Duration
	logger         *zap.Logger
}

func NewOrderService(repo repository.OrderRepository, pub publisher.Publisher, metrics *awspkg.MetricsClient, publishTimeout time.Duration, logger *zap.Logger) OrderService {
	if pub == nil {
		pub = publisher.Disabled{}
	}
	if publishTimeout <= 0 {
		publishTimeout = 5 * time.Second
	}
	return &orderServiceImpl{
		repo:           repo,
		publisher:      pub,
		metrics:        metrics,
		publishTimeout: publishTimeout,
		logger:         logger,
	}
}

// CreateOrder computes the total from the submitted lines, stores the order as
// PENDING and notifies when an email address was supplied.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		qty := 1
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		items = append(items, models.OrderItem{
			ProductID:    it.ProductID,
			Quantity:     qty,
			PriceAtOrder: it.PriceAtOrder,
		})
	}

	order := &models.Order{
		UserID:     req.UserID,
		Status:     models.StatusPending,
		OrderTotal: models.ComputeTotal(items),
		Items:      items,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to create order", zap.Uint("user_id", req.UserID), zap.Error(err))
		return nil, apperrors.Internal(fmt.Errorf("failed to create order: %w", err))
	}

	s.logger.Info("Order created",
		zap.Uint("order_id", order.OrderID),
		zap.Uint("user_id", order.UserID),
		zap.String("order_total", order.OrderTotal.StringFixed(2)),
	)
	s.recordCount(ctx, awspkg.MetricOrdersCreated)

	if req.UserEmail == "" {
		s.logger.Warn("No user_email supplied, skipping order notification", zap.Uint("order_id", order.OrderID))
	} else {
		s.publish(ctx, order, req.UserEmail)
	}
	return order, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, s.mapError(err, orderID)
	}
	return order, nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, skip, limit int) ([]models.Order, error) {
	orders, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list orders: %w", err))
	}
	return orders, nil
}

func (s *orderServiceImpl) ListOrdersByUser(ctx context.Context, userID uint, skip, limit int) ([]models.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID, skip, limit)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list orders for user %d: %w", userID, err))
	}
	return orders, nil
}

// UpdateOrder applies a status transition. An empty update and an update to the
// current status return the order unchanged and publish nothing.
func (s *orderServiceImpl) UpdateOrder(ctx context.Context, orderID uint, req *models.UpdateOrderRequest) (*models.Order, error) {
	current, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, s.mapError(err, orderID)
	}
	if req.Empty() || *req.Status == current.Status {
		return current, nil
	}
	if !req.Status.Settable() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid status %q", *req.Status))
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, *req.Status)
	if err != nil {
		return nil, s.mapError(err, orderID)
	}
	s.logger.Info("Order status changed",
		zap.Uint("order_id", orderID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(updated.Status)),
	)

	if req.UserEmail != "" {
		s.publish(ctx, updated, req.UserEmail)
	}
	return updated, nil
}

func (s *orderServiceImpl) DeleteOrder(ctx context.Context, orderID uint) error {
	deleted, err := s.repo.Delete(ctx, orderID)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("failed to delete order %d: %w", orderID, err))
	}
	if !deleted {
		return apperrors.NotFound("Order not found")
	}
	s.logger.Info("Order deleted", zap.Uint("order_id", orderID))
	return nil
}

// publish sends one event, at most once. Failures are logged and counted and
// never reach the caller.
func (s *orderServiceImpl) publish(ctx context.Context, order *models.Order, email string) {
	evt := models.NewOrderEvent(order, email, "")

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	err := s.publisher.PublishOrderEvent(pubCtx, evt)
	switch {
	case err == nil:
		s.logger.Info("Order event published",
			zap.Uint("order_id", evt.OrderID),
			zap.String("event_type", evt.EventType),
			zap.String("transport", s.publisher.Name()),
		)
		s.recordCount(ctx, awspkg.MetricOrderNotificationsPublished)
	case errors.Is(err, publisher.ErrNotConfigured):
		s.logger.Warn("Order event not published, no transport configured",
			zap.Uint("order_id", evt.OrderID), zap.String("event_type", evt.EventType))
	default:
		s.logger.Error("Failed to publish order event",
			zap.Uint("order_id", evt.OrderID),
			zap.String("event_type", evt.EventType),
			zap.String("transport", s.publisher.Name()),
			zap.Error(err),
		)
		s.recordCount(ctx, awspkg.MetricOrderNotificationsFailed)
	}
}

func (s *orderServiceImpl) recordCount(ctx context.Context, metric string) {
	if !s.metrics.IsEnabled() {
		return
	}
	if err := s.metrics.RecordCount(context.WithoutCancel(ctx), metric, map[string]string{"Service": "order-service"}); err != nil {
		s.logger.Debug("Failed to record metric", zap.String("metric", metric), zap.Error(err))
	}
}

func (s *orderServiceImpl) mapError(err error, orderID uint) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("Order not found")
	}
	return apperrors.Internal(fmt.Errorf("order %d: %w", orderID, err))
}
