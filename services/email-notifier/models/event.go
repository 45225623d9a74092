package models

import "encoding/json"

// OrderEvent is the payload the order service publishes. Numbers are kept as
// json.Number so either a JSON number or a numeric string decodes.
type OrderEvent struct {
	OrderID    json.Number `json:"order_id"`
	UserID     json.Number `json:"user_id"`
	UserEmail  string      `json:"user_email"`
	Status     string      `json:"status"`
	OrderTotal json.Number `json:"order_total"`
	Items      []EventItem `json:"items"`
	CreatedAt  string      `json:"created_at"`
	EventType  string      `json:"event_type"`
}

type EventItem struct {
	ProductID    json.Number `json:"product_id"`
	Quantity     int         `json:"quantity"`
	PriceAtOrder json.Number `json:"price_at_order"`
}

// StatusOrDefault returns the status, or CREATED when the event carries none.
func (e OrderEvent) StatusOrDefault() string {
	if e.Status == "" {
		return "CREATED"
	}
	return e.Status
}
