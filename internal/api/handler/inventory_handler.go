package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minimart/pos-api/internal/api/metrics"
	"github.com/minimart/pos-api/internal/api/middleware"
	"github.com/minimart/pos-api/internal/core/ports"
)

// InventoryHandler handles product and sale routes.
type InventoryHandler struct {
	service ports.InventoryService
}

func NewInventoryHandler(service ports.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// CreateProduct adds a catalog item.
//
// @Summary      Create a product
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      createProductRequest  true  "Product details"
// @Success      201   {object}  domain.Product
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]string
// @Router       /api/products [post]
func (h *InventoryHandler) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.Request().Context(), ports.CreateProductInput{
		SKU:      req.SKU,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Stock:    req.Stock,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

// ListProducts returns a filtered page of the catalog.
//
// @Summary      List products
// @Tags         inventory
// @Produce      json
// @Param        category  query     string  false  "Filter by category"
// @Param        search    query     string  false  "Partial match on name or sku"
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Success      200       {object}  listProductsResponse
// @Router       /api/products [get]
func (h *InventoryHandler) ListProducts(c echo.Context) error {
	filter := ports.ListProductsFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Page:     intQueryParam(c, "page"),
		Limit:    intQueryParam(c, "limit"),
	}

	result, err := h.service.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listProductsResponse{
		Items: result.Items,
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	})
}

// AdjustStock applies a delta to a product's stock count.
//
// @Summary      Adjust product stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Product id"
// @Param        body  body      adjustStockRequest  true  "Signed stock delta"
// @Success      200   {object}  domain.Product
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/products/{id}/stock [patch]
func (h *InventoryHandler) AdjustStock(c echo.Context) error {
	var req adjustStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.service.AdjustStock(c.Request().Context(), c.Param("id"), req.Delta)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// RecordSale records a completed transaction and decrements stock.
//
// @Summary      Record a sale
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      recordSaleRequest  true  "Sale lines"
// @Success      201   {object}  domain.Sale
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/sales [post]
func (h *InventoryHandler) RecordSale(c echo.Context) error {
	var req recordSaleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor, err := middleware.Actor(c)
	if err != nil {
		return err
	}

	items := make([]ports.SaleItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.SaleItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	sale, err := h.service.RecordSale(c.Request().Context(), ports.RecordSaleInput{
		Items:  items,
		SoldBy: actor.Username,
	})
	if err != nil {
		return err
	}

	metrics.SalesRecordedTotal.Inc()
	return c.JSON(http.StatusCreated, sale)
}

// ListSales returns a filtered page of recorded sales.
//
// @Summary      List sales
// @Tags         inventory
// @Produce      json
// @Param        sold_by  query     string  false  "Filter by seller username"
// @Param        from     query     string  false  "RFC3339 lower bound on created_at"
// @Param        to       query     string  false  "RFC3339 upper bound on created_at"
// @Param        page     query     int     false  "Page (1-based)"
// @Param        limit    query     int     false  "Page size (max 100)"
// @Success      200      {object}  listSalesResponse
// @Router       /api/sales [get]
func (h *InventoryHandler) ListSales(c echo.Context) error {
	filter := ports.ListSalesFilter{
		SoldBy: c.QueryParam("sold_by"),
		Page:   intQueryParam(c, "page"),
		Limit:  intQueryParam(c, "limit"),
	}
	if from := c.QueryParam("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "from must be RFC3339")
		}
		filter.DateFrom = t
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "to must be RFC3339")
		}
		filter.DateTo = t
	}

	result, err := h.service.ListSales(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listSalesResponse{
		Items: result.Items,
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	})
}

func intQueryParam(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
