package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/minimart/pos-api/internal/api/handler"
	"github.com/minimart/pos-api/internal/api/middleware"
	"github.com/minimart/pos-api/internal/core/domain"
	"github.com/minimart/pos-api/internal/core/ports"
	"github.com/minimart/pos-api/internal/core/service"
	"github.com/minimart/pos-api/internal/infrastructure/config"
	mongodb "github.com/minimart/pos-api/internal/infrastructure/db/mongo"
	redisdb "github.com/minimart/pos-api/internal/infrastructure/db/redis"
	healthhandlers "github.com/minimart/pos-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, audit ports.LoginAuditRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("pos"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	sessionStore := redisdb.NewSessionStore(rdb)
	authService := service.NewAuthService(userRepo, sessionStore, cfg.Auth.SessionTTL, log)

	inventoryRepo := mongodb.NewInventoryRepository(db)
	inventoryService := service.NewInventoryService(inventoryRepo, log)

	authHandler := handler.NewAuthHandler(authService, audit, cfg.Auth.SessionTTL, cfg.IsProduction())
	adminHandler := handler.NewAdminHandler(authService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)

	sessionRequired := middleware.Session(authService)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	sellers := middleware.RBAC(domain.RoleAdmin, domain.RoleStaff)

	// --- Auth routes ---
	e.POST("/api/login", authHandler.Login)
	e.POST("/api/register", authHandler.Register)
	e.POST("/api/logout", authHandler.Logout)

	// --- Admin routes ---
	admin := e.Group("/api/admin", sessionRequired, adminOnly)
	admin.POST("/reset-password", adminHandler.ResetPassword)
	admin.GET("/accounts", adminHandler.ListAccounts)

	// --- Inventory routes ---
	products := e.Group("/api/products", sessionRequired)
	products.GET("", inventoryHandler.ListProducts)
	products.POST("", inventoryHandler.CreateProduct, sellers)
	products.PATCH("/:id/stock", inventoryHandler.AdjustStock, sellers)

	sales := e.Group("/api/sales", sessionRequired)
	sales.GET("", inventoryHandler.ListSales)
	sales.POST("", inventoryHandler.RecordSale, sellers)

	// --- Ops endpoints (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	readinessHandler := healthhandlers.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
