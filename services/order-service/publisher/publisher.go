package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/yashrajoria/shopping-backend/services/order-service/models"
)

// Publisher emits one order event. Callers treat every error as non-fatal.
type Publisher interface {
	PublishOrderEvent(ctx context.Context, evt models.OrderEvent) error
	Name() string
}

// ErrNotConfigured is returned by Disabled so callers can log a warning rather
// than an error.
var ErrNotConfigured = fmt.Errorf("event publishing not configured")

// Disabled stands in when no topic is configured.
type Disabled struct{}

func (Disabled) PublishOrderEvent(context.Context, models.OrderEvent) error { return ErrNotConfigured }
func (Disabled) Name() string                                               { return "disabled" }

// routingAttributes are attached to every message for downstream filtering.
func routingAttributes(evt models.OrderEvent) map[string]string {
	return map[string]string{
		"event_type": evt.EventType,
		"order_id":   strconv.FormatUint(uint64(evt.OrderID), 10),
		"status":     string(evt.Status),
	}
}

func encode(evt models.OrderEvent) ([]byte, error) {
	b, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal order event: %w", err)
	}
	return b, nil
}
