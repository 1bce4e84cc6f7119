package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deskastudio/kasir-umkm-api/internal/application/service"
	"github.com/deskastudio/kasir-umkm-api/internal/config"
	"github.com/deskastudio/kasir-umkm-api/internal/infrastructure/cache"
	"github.com/deskastudio/kasir-umkm-api/internal/infrastructure/database"
	"github.com/deskastudio/kasir-umkm-api/internal/infrastructure/repository"
	"github.com/deskastudio/kasir-umkm-api/internal/presentation/http/handler"
	"github.com/deskastudio/kasir-umkm-api/internal/presentation/http/routes"
	"github.com/deskastudio/kasir-umkm-api/pkg/printer"
	"github.com/deskastudio/kasir-umkm-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default accounts on an empty install
	if err := database.SeedDefaultUsers(db, &cfg.Seed); err != nil {
		log.Printf("Warning: Failed to seed default users: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Optional Redis catalog cache; a nil cache is a no-op, so the API
	// runs fine without Redis
	var catalogCache *cache.CatalogCache
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			log.Printf("Warning: Redis unavailable, catalog cache disabled: %v", err)
		} else {
			catalogCache = cache.NewCatalogCache(redisClient, cfg.Redis.TTL)
			log.Printf("Catalog cache enabled (redis %s)", cfg.Redis.Addr)
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	adjustmentRepo := repository.NewStockAdjustmentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Receipt printer; "none" falls back to a discard printer
	receiptPrinter, err := printer.NewFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Fatalf("Failed to configure printer: %v", err)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	productService := service.NewProductService(productRepo, categoryRepo, catalogCache)
	categoryService := service.NewCategoryService(categoryRepo, catalogCache)
	transactionService := service.NewTransactionService(transactionRepo, productRepo, userRepo, catalogCache)
	stockService := service.NewStockService(adjustmentRepo, productRepo, catalogCache)
	reportService := service.NewReportService(reportRepo, transactionRepo, productRepo)
	userService := service.NewUserService(userRepo)
	printerService := service.NewPrinterService(receiptPrinter, transactionRepo, service.StoreInfo{
		Name:    cfg.Store.Name,
		Address: cfg.Store.Address,
		Phone:   cfg.Store.Phone,
		Footer:  cfg.Store.Footer,
	}, cfg.Printer.Type)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Product:     handler.NewProductHandler(productService),
		Category:    handler.NewCategoryHandler(categoryService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Stock:       handler.NewStockHandler(stockService),
		Report:      handler.NewReportHandler(reportService),
		User:        handler.NewUserHandler(userService),
		Printer:     handler.NewPrinterHandler(printerService),
	}

	// Periodic cleanup of expired idempotency keys
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
				log.Printf("Warning: idempotency cleanup failed: %v", err)
			}
		}
	}()

	// Setup router and start server
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	log.Printf("Starting %s on port %s (env: %s)", cfg.App.Name, cfg.App.Port, cfg.App.Env)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
