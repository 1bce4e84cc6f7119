package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deskastudio/kasir-umkm-api/internal/config"
	domainRepo "github.com/deskastudio/kasir-umkm-api/internal/domain/repository"
	"github.com/deskastudio/kasir-umkm-api/internal/presentation/http/handler"
	"github.com/deskastudio/kasir-umkm-api/internal/presentation/http/middleware"
	"github.com/deskastudio/kasir-umkm-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Product     *handler.ProductHandler
	Category    *handler.CategoryHandler
	Transaction *handler.TransactionHandler
	Stock       *handler.StockHandler
	Report      *handler.ReportHandler
	User        *handler.UserHandler
	Printer     *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.POST("/auth/login", h.Auth.Login)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: deps.Cfg.RateLimit.RequestsPerSecond,
			BurstSize:         deps.Cfg.RateLimit.Burst,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/auth/me", h.Auth.Me)
	protected.PUT("/auth/password", h.Auth.ChangePassword)

	// Products: listings are open to every cashier, writes are admin only
	registerProductRoutes(protected, h)

	// Categories
	registerCategoryRoutes(protected, h)

	// Transactions
	registerTransactionRoutes(protected, h, deps)

	// Stock adjustments (Admin)
	registerStockRoutes(protected, h)

	// Reports (Admin)
	registerReportRoutes(protected, h)

	// Users (Admin)
	registerUserRoutes(protected, h)

	// Printer
	registerPrinterRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.LowStock)
		products.GET("/:id", h.Product.Get)

		admin := products.Group("")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("", h.Product.Create)
			admin.PUT("/:id", h.Product.Update)
			admin.DELETE("/:id", h.Product.Delete)
		}
	}
}

func registerCategoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Category.List)

		admin := categories.Group("")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("", h.Category.Create)
			admin.PUT("/:id", h.Category.Update)
			admin.DELETE("/:id", h.Category.Delete)
		}
	}
}

func registerTransactionRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	transactions := protected.Group("/transactions")
	{
		// Checkout commits use idempotency middleware so a retried
		// settlement never charges twice
		transactions.POST("", middleware.IdempotencyRequired(deps.IdempotencyRepo), h.Transaction.Create)
		transactions.GET("", h.Transaction.List)
		transactions.GET("/invoice/:invoice_no", h.Transaction.GetByInvoice)
		transactions.GET("/:id", h.Transaction.Get)
	}
}

func registerStockRoutes(protected *gin.RouterGroup, h *Handlers) {
	stock := protected.Group("/stock")
	stock.Use(middleware.RequireRole("admin"))
	{
		stock.POST("/adjustments", h.Stock.Adjust)
		stock.GET("/adjustments", h.Stock.List)
		stock.GET("/adjustments/product/:id", h.Stock.ProductHistory)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequireRole("admin"))
	{
		reports.GET("/summary", h.Report.Summary)
		reports.GET("/daily", h.Report.DailySales)
		reports.GET("/top-products", h.Report.TopProducts)
		reports.GET("/export", h.Report.Export)
		reports.GET("/low-stock", h.Report.LowStock)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequireRole("admin"))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.Status)
		printer.POST("/test", h.Printer.Test)
		printer.POST("/receipts/:id", h.Printer.PrintReceipt)
	}
}
