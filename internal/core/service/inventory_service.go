package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/minimart/pos-api/internal/core/domain"
	"github.com/minimart/pos-api/internal/core/ports"
)

const maxPageLimit = 100

type inventoryService struct {
	repo   ports.InventoryRepository
	logger zerolog.Logger
}

// NewInventoryService returns an InventoryService implementation.
func NewInventoryService(repo ports.InventoryRepository, logger zerolog.Logger) ports.InventoryService {
	return &inventoryService{repo: repo, logger: logger}
}

func (s *inventoryService) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		SKU:       input.SKU,
		Name:      input.Name,
		Category:  input.Category,
		Price:     input.Price,
		Stock:     input.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("sku", created.SKU).Str("name", created.Name).Msg("product created")
	return created, nil
}

func (s *inventoryService) ListProducts(ctx context.Context, filter ports.ListProductsFilter) (*ports.ListProductsResult, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	items, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.ListProductsResult{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventoryService) AdjustStock(ctx context.Context, productID string, delta int) (*domain.Product, error) {
	product, err := s.repo.AdjustStock(ctx, productID, delta)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("product_id", productID).Int("delta", delta).Int("stock", product.Stock).Msg("stock adjusted")
	return product, nil
}

// RecordSale validates the requested lines against the catalog, decrements
// stock per line, and persists the sale. Stock decrements are atomic per
// product but the sale as a whole is not transactional: a failed line aborts
// the sale and restores the lines already taken.
func (s *inventoryService) RecordSale(ctx context.Context, input ports.RecordSaleInput) (*domain.Sale, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptySale
	}

	items := make([]domain.SaleItem, 0, len(input.Items))
	total := 0.0
	taken := make([]ports.SaleItemInput, 0, len(input.Items))

	for _, line := range input.Items {
		product, err := s.repo.AdjustStock(ctx, line.ProductID, -line.Quantity)
		if err != nil {
			s.restoreStock(ctx, taken)
			return nil, err
		}
		taken = append(taken, line)
		items = append(items, domain.SaleItem{
			ProductID: product.ID,
			SKU:       product.SKU,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
		})
		total += product.Price * float64(line.Quantity)
	}

	sale := &domain.Sale{
		Folio:     generateFolio(),
		Items:     items,
		Total:     total,
		SoldBy:    input.SoldBy,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.InsertSale(ctx, sale)
	if err != nil {
		s.restoreStock(ctx, taken)
		return nil, err
	}
	s.logger.Info().Str("folio", created.Folio).Float64("total", created.Total).Str("sold_by", created.SoldBy).Msg("sale recorded")
	return created, nil
}

func (s *inventoryService) ListSales(ctx context.Context, filter ports.ListSalesFilter) (*ports.ListSalesResult, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	items, total, err := s.repo.ListSales(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.ListSalesResult{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// restoreStock undoes decrements from an aborted sale. Failures are logged
// and skipped; the records stay consistent per product.
func (s *inventoryService) restoreStock(ctx context.Context, taken []ports.SaleItemInput) {
	for _, line := range taken {
		if _, err := s.repo.AdjustStock(ctx, line.ProductID, line.Quantity); err != nil {
			s.logger.Error().Err(err).Str("product_id", line.ProductID).Msg("failed to restore stock after aborted sale")
		}
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// generateFolio returns a human-quotable sale reference in the format POS-XXXXXXXX.
func generateFolio() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("POS-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("POS-%08X", b)
}
