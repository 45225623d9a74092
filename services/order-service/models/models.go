package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending OrderStatus = "PENDING"
	StatusPaid    OrderStatus = "PAID"
	StatusShipped OrderStatus = "SHIPPED"

	// Notification vocabulary only; never stored.
	StatusCreated   OrderStatus = "CREATED"
	StatusCompleted OrderStatus = "COMPLETED"
)

// Settable reports whether an order may be moved to s through an update.
// Any settable status may follow any other.
func (s OrderStatus) Settable() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped:
		return true
	}
	return false
}

type Order struct {
	OrderID    uint            `gorm:"column:order_id;primaryKey;autoIncrement"`
	UserID     uint            `gorm:"column:user_id;not null;index"`
	Status     OrderStatus     `gorm:"column:status;size:50;not null;default:PENDING"`
	OrderTotal decimal.Decimal `gorm:"column:order_total;type:decimal(10,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	Items      []OrderItem     `gorm:"foreignKey:OrderID;references:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	OrderItemID  uint            `gorm:"column:order_item_id;primaryKey;autoIncrement"`
	OrderID      uint            `gorm:"column:order_id;not null;index"`
	ProductID    uint            `gorm:"column:product_id;not null"`
	Quantity     int             `gorm:"column:quantity;not null;default:1"`
	PriceAtOrder decimal.Decimal `gorm:"column:price_at_order;type:decimal(10,2);not null"`
}

func (OrderItem) TableName() string { return "order_items" }

// Extension is price_at_order × quantity.
func (i OrderItem) Extension() decimal.Decimal {
	return i.PriceAtOrder.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeTotal sums the line extensions exactly.
func ComputeTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Extension())
	}
	return total
}

type OrderItemRequest struct {
	ProductID    uint            `json:"product_id" binding:"required,gt=0"`
	Quantity     *int            `json:"quantity" binding:"omitempty,gt=0"`
	PriceAtOrder decimal.Decimal `json:"price_at_order" binding:"dgt0,dplaces=2"`
}

// CreateOrderRequest is the body of POST /orders. A client supplied status is
// not part of it; new orders are always PENDING.
type CreateOrderRequest struct {
	UserID    uint               `json:"user_id" binding:"required,gt=0"`
	UserEmail string             `json:"user_email" binding:"omitempty,email"`
	Items     []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest is the body of PUT /orders/:order_id. UserEmail only
// addresses the notification and is not stored.
type UpdateOrderRequest struct {
	Status    *OrderStatus `json:"status" binding:"omitempty,oneof=PENDING PAID SHIPPED"`
	UserEmail string       `json:"user_email" binding:"omitempty,email"`
}

func (r UpdateOrderRequest) Empty() bool {
	return r.Status == nil
}

type OrderItemResponse struct {
	OrderItemID  uint        `json:"order_item_id"`
	OrderID      uint        `json:"order_id"`
	ProductID    uint        `json:"product_id"`
	Quantity     int         `json:"quantity"`
	PriceAtOrder json.Number `json:"price_at_order"`
}

type OrderResponse struct {
	OrderID    uint                `json:"order_id"`
	UserID     uint                `json:"user_id"`
	Status     OrderStatus         `json:"status"`
	OrderTotal json.Number         `json:"order_total"`
	CreatedAt  time.Time           `json:"created_at"`
	Items      []OrderItemResponse `json:"items"`
}

// Amount renders a decimal as an exact JSON number with two places.
func Amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func NewOrderResponse(o *Order) OrderResponse {
	resp := OrderResponse{
		OrderID:    o.OrderID,
		UserID:     o.UserID,
		Status:     o.Status,
		OrderTotal: Amount(o.OrderTotal),
		CreatedAt:  o.CreatedAt,
		Items:      make([]OrderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			OrderItemID:  it.OrderItemID,
			OrderID:      it.OrderID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			PriceAtOrder: Amount(it.PriceAtOrder),
		})
	}
	return resp
}
