package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const itemIDPrefix = "ITEM#"

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.@-]{1,128}$`)

// ValidUserID reports whether id may key a cart. Store key separators such
// as ':' and '#' are rejected.
func ValidUserID(id string) bool {
	return userIDPattern.MatchString(id)
}

// CartItem is one line of a user's cart, keyed by (UserID, ItemID).
type CartItem struct {
	UserID      string          `json:"user_id"`
	ItemID      string          `json:"item_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	AddedAt     string          `json:"added_at"`
	TTL         *int64          `json:"ttl,omitempty"`
}

// ItemIDFor encodes a product id as the cart sort key.
func ItemIDFor(productID int64) string {
	return itemIDPrefix + strconv.FormatInt(productID, 10)
}

// ProductIDFrom reverses ItemIDFor.
func ProductIDFrom(itemID string) (int64, error) {
	if !strings.HasPrefix(itemID, itemIDPrefix) {
		return 0, fmt.Errorf("item id %q has no %s prefix", itemID, itemIDPrefix)
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(itemID, itemIDPrefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("item id %q: %w", itemID, err)
	}
	return id, nil
}

// ExpiryAt returns the epoch second days after now.
func ExpiryAt(now time.Time, days int) int64 {
	return now.Add(time.Duration(days) * 24 * time.Hour).Unix()
}

// Prepare fills the item id, added_at and ttl when they are unset.
func (i *CartItem) Prepare(now time.Time, ttlDays int) {
	if i.ItemID == "" {
		i.ItemID = ItemIDFor(i.ProductID)
	}
	if i.AddedAt == "" {
		i.AddedAt = now.UTC().Format(time.RFC3339)
	}
	if i.TTL == nil {
		ttl := ExpiryAt(now, ttlDays)
		i.TTL = &ttl
	}
}

// Expired reports whether the ttl has passed. The store reaps expired items
// lazily, so reads filter them out.
func (i CartItem) Expired(now time.Time) bool {
	return i.TTL != nil && *i.TTL <= now.Unix()
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AddItemRequest is the body of POST /cart/:user_id/items.
type AddItemRequest struct {
	ProductID   int64           `json:"product_id" binding:"required,gt=0"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	Price       decimal.Decimal `json:"price" binding:"dgt0"`
}

// UpdateItemRequest is the body of PUT /cart/:user_id/items/:product_id.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

type CartItemResponse struct {
	ProductID   int64       `json:"product_id"`
	ProductName string      `json:"product_name"`
	Quantity    int         `json:"quantity"`
	Price       json.Number `json:"price"`
	Subtotal    json.Number `json:"subtotal"`
	AddedAt     string      `json:"added_at"`
}

type CartResponse struct {
	UserID     string             `json:"user_id"`
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice json.Number        `json:"total_price"`
}

// Amount renders a decimal as an exact JSON number with two places.
func Amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func NewCartItemResponse(i CartItem) CartItemResponse {
	return CartItemResponse{
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		Price:       Amount(i.Price),
		Subtotal:    Amount(i.Subtotal()),
		AddedAt:     i.AddedAt,
	}
}
