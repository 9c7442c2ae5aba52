package ports

import (
	"context"
	"time"

	"github.com/minimart/pos-api/internal/core/domain"
)

// ListProductsFilter carries query parameters for the product listing.
type ListProductsFilter struct {
	Category string // optional
	Search   string // optional: partial match on name or sku
	Page     int    // 1-based
	Limit    int    // capped by the service
}

// ListSalesFilter carries query parameters for the sales listing.
type ListSalesFilter struct {
	SoldBy   string    // optional: filter by seller username
	DateFrom time.Time // optional: created_at >= DateFrom
	DateTo   time.Time // optional: created_at <= DateTo
	Page     int
	Limit    int
}

// InventoryRepository defines persistence for products and sales.
type InventoryRepository interface {
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindProductByID(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
	// AdjustStock applies delta to the product's stock in a single atomic
	// update. A negative delta that would drive stock below zero fails with
	// domain.ErrInsufficientStock.
	AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error)
	InsertSale(ctx context.Context, s *domain.Sale) (*domain.Sale, error)
	ListSales(ctx context.Context, filter ListSalesFilter) ([]*domain.Sale, int64, error)
}
