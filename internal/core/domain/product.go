package domain

import (
	"errors"
	"time"
)

var ErrProductNotFound = errors.New("product not found")
var ErrDuplicateSKU = errors.New("product sku already exists")
var ErrInsufficientStock = errors.New("insufficient stock")
var ErrSaleNotFound = errors.New("sale not found")
var ErrEmptySale = errors.New("sale has no items")

// Product is a catalog item tracked by stock count.
type Product struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaleItem is one line of a recorded sale. Product details are denormalized
// at sale time so later catalog edits do not rewrite history.
type SaleItem struct {
	ProductID string  `json:"product_id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Sale records a completed transaction.
type Sale struct {
	ID        string     `json:"id"`
	Folio     string     `json:"folio"`
	Items     []SaleItem `json:"items"`
	Total     float64    `json:"total"`
	SoldBy    string     `json:"sold_by"`
	CreatedAt time.Time  `json:"created_at"`
}
