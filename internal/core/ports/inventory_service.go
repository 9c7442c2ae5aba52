package ports

import (
	"context"

	"github.com/minimart/pos-api/internal/core/domain"
)

// CreateProductInput carries all data needed to add a catalog item.
type CreateProductInput struct {
	SKU      string
	Name     string
	Category string
	Price    float64
	Stock    int
}

// SaleItemInput is one requested line of a sale.
type SaleItemInput struct {
	ProductID string
	Quantity  int
}

// RecordSaleInput carries all data needed to record a sale.
type RecordSaleInput struct {
	Items  []SaleItemInput
	SoldBy string
}

// ListProductsResult is a page of products plus the total match count.
type ListProductsResult struct {
	Items []*domain.Product
	Total int64
	Page  int
	Limit int
}

// ListSalesResult is a page of sales plus the total match count.
type ListSalesResult struct {
	Items []*domain.Sale
	Total int64
	Page  int
	Limit int
}

// InventoryService defines use-case operations for the catalog and sales.
type InventoryService interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	ListProducts(ctx context.Context, filter ListProductsFilter) (*ListProductsResult, error)
	AdjustStock(ctx context.Context, productID string, delta int) (*domain.Product, error)
	RecordSale(ctx context.Context, input RecordSaleInput) (*domain.Sale, error)
	ListSales(ctx context.Context, filter ListSalesFilter) (*ListSalesResult, error)
}
