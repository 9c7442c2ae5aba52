package handler

import "github.com/minimart/pos-api/internal/core/domain"

type createProductRequest struct {
	SKU      string  `json:"sku"      validate:"required,min=2,max=40"`
	Name     string  `json:"name"     validate:"required"`
	Category string  `json:"category" validate:"omitempty,max=60"`
	Price    float64 `json:"price"    validate:"required,gt=0"`
	Stock    int     `json:"stock"    validate:"gte=0"`
}

type adjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type saleItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,gt=0"`
}

type recordSaleRequest struct {
	Items []saleItemRequest `json:"items" validate:"required,min=1,dive"`
}

type listProductsResponse struct {
	Items []*domain.Product `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type listSalesResponse struct {
	Items []*domain.Sale `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
