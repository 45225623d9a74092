package models

import (
	"strconv"
	"strings"
	"time"
)

// OrderEvent is the notification message body. Field names and string encoded
// amounts are the wire format the email notifier reads.
type OrderEvent struct {
	OrderID    uint        `json:"order_id"`
	UserID     uint        `json:"user_id"`
	UserEmail  string      `json:"user_email"`
	Status     OrderStatus `json:"status"`
	OrderTotal string      `json:"order_total"`
	Items      []EventItem `json:"items"`
	CreatedAt  string      `json:"created_at"`
	EventType  string      `json:"event_type"`
}

type EventItem struct {
	ProductID    uint   `json:"product_id"`
	Quantity     int    `json:"quantity"`
	PriceAtOrder string `json:"price_at_order"`
}

// EventTypeFor returns "order.<status>" in lower case.
func EventTypeFor(status OrderStatus) string {
	return "order." + strings.ToLower(string(status))
}

// NewOrderEvent snapshots o for userEmail. An empty eventType is derived from the status.
func NewOrderEvent(o *Order, userEmail, eventType string) OrderEvent {
	if eventType == "" {
		eventType = EventTypeFor(o.Status)
	}
	items := make([]EventItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, EventItem{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			PriceAtOrder: it.PriceAtOrder.StringFixed(2),
		})
	}
	return OrderEvent{
		OrderID:    o.OrderID,
		UserID:     o.UserID,
		UserEmail:  userEmail,
		Status:     o.Status,
		OrderTotal: o.OrderTotal.StringFixed(2),
		Items:      items,
		CreatedAt:  o.CreatedAt.UTC().Format(time.RFC3339Nano),
		EventType:  eventType,
	}
}

// Subject is the notification subject line, "Order <id> - <STATUS>".
func (e OrderEvent) Subject() string {
	return "Order " + strconv.FormatUint(uint64(e.OrderID), 10) + " - " + string(e.Status)
}
