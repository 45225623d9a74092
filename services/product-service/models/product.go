package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ProductID   uint            `gorm:"column:product_id;primaryKey;autoIncrement"`
	SKU         string          `gorm:"column:sku;size:100;uniqueIndex;not null"`
	Name        string          `gorm:"column:name;size:255;not null"`
	Description string          `gorm:"column:description;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Product) TableName() string { return "products" }

// ProductInventory holds the stock of one product. A product has at most one
// row, created on its first inventory update.
type ProductInventory struct {
	InventoryID       uint      `gorm:"column:inventory_id;primaryKey;autoIncrement"`
	ProductID         uint      `gorm:"column:product_id;uniqueIndex;not null"`
	StockQuantity     int       `gorm:"column:stock_quantity;not null;default:0"`
	WarehouseLocation string    `gorm:"column:warehouse_location;size:255"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductInventory) TableName() string { return "product_inventory" }

type CreateProductRequest struct {
	SKU         string          `json:"sku" binding:"required,notblank,max=100"`
	Name        string          `json:"name" binding:"required,notblank,max=255"`
	Description string          `json:"description" binding:"max=5000"`
	Price       decimal.Decimal `json:"price" binding:"dgt0,dplaces=2"`
}

// UpdateProductRequest leaves nil fields as stored. The SKU is immutable.
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,notblank,max=255"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price" binding:"omitempty,dgt0,dplaces=2"`
}

func (r UpdateProductRequest) Apply(p *Product) {
	if r.Name != nil {
		p.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
}

type InventoryUpdateRequest struct {
	StockQuantity     *int    `json:"stock_quantity" binding:"omitempty,gte=0"`
	WarehouseLocation *string `json:"warehouse_location" binding:"omitempty,max=255"`
}

func (r InventoryUpdateRequest) Apply(inv *ProductInventory) {
	if r.StockQuantity != nil {
		inv.StockQuantity = *r.StockQuantity
	}
	if r.WarehouseLocation != nil {
		inv.WarehouseLocation = strings.TrimSpace(*r.WarehouseLocation)
	}
}

type ProductResponse struct {
	ProductID   uint            `json:"product_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
}

func NewProductResponse(p *Product) ProductResponse {
	return ProductResponse{
		ProductID:   p.ProductID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
	}
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type InventoryResponse struct {
	InventoryID       uint      `json:"inventory_id"`
	ProductID         uint      `json:"product_id"`
	StockQuantity     int       `json:"stock_quantity"`
	WarehouseLocation string    `json:"warehouse_location"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func NewInventoryResponse(inv *ProductInventory) InventoryResponse {
	return InventoryResponse{
		InventoryID:       inv.InventoryID,
		ProductID:         inv.ProductID,
		StockQuantity:     inv.StockQuantity,
		WarehouseLocation: inv.WarehouseLocation,
		UpdatedAt:         inv.UpdatedAt,
	}
}
