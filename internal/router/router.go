// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quickelectronics/supplychain-backend/internal/config"
	"github.com/quickelectronics/supplychain-backend/internal/handlers"
	"github.com/quickelectronics/supplychain-backend/internal/middleware"
	"github.com/quickelectronics/supplychain-backend/internal/services"
	"github.com/quickelectronics/supplychain-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	notifier := services.NewNotificationService(db, cfg)
	supplierService := services.NewSupplierService(db, notifier)

	authHandler := handlers.NewAuthHandler(services.NewAuthService(db, cfg))
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	productHandler := handlers.NewProductHandler(services.NewProductService(db))
	orderHandler := handlers.NewOrderHandler(services.NewOrderService(db, notifier))
	inventoryHandler := handlers.NewInventoryHandler(services.NewInventoryService(db))
	adminHandler := handlers.NewAdminHandler(services.NewAdminService(db, notifier), supplierService)
	notificationHandler := handlers.NewNotificationHandler(notifier)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.I18nMiddleware(),
		middleware.GeneralRateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		middleware.AuditLogMiddleware(db),
	)

	// Wrong verb on a known path answers 405, not 404
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		utils.MethodNotAllowedResponse(c)
	})

	r.GET("/health", health)

	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit(cfg.RateLimit.AuthPerMinute))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Supplier routes
		suppliers := v1.Group("/suppliers")
		{
			suppliers.POST("/register", middleware.AuthRateLimit(cfg.RateLimit.AuthPerMinute), supplierHandler.RegisterSupplier)
			suppliers.GET("", supplierHandler.GetSuppliers)
			suppliers.GET("/:id", middleware.OptionalAuth(), supplierHandler.GetSupplier)
			suppliers.GET("/:id/performance", supplierHandler.GetSupplierPerformance)

			// Supplier self-service
			me := suppliers.Group("/me")
			me.Use(middleware.AuthRequired(), middleware.SupplierRequired(db))
			{
				me.GET("/products", productHandler.GetMyProducts)
			}
		}

		// Product catalog routes
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.GetProducts)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)

			protected := products.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", productHandler.CreateProduct)
				protected.PUT("/:id", productHandler.UpdateProduct)
			}
		}

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.GET("", productHandler.GetCategories)
		}

		// Order routes
		orders := v1.Group("/orders")
		{
			// Public tracking: the order ID doubles as the tracking reference
			orders.GET("/:id/tracking", orderHandler.GetOrderTracking)

			protected := orders.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", orderHandler.PlaceOrder)
				protected.GET("", orderHandler.GetOrders)
				protected.GET("/:id", orderHandler.GetOrder)
				protected.PUT("/:id/status", orderHandler.UpdateOrderStatus)
			}
		}

		// Inventory routes (supplier only)
		inventory := v1.Group("/inventory")
		inventory.Use(middleware.AuthRequired(), middleware.SupplierRequired(db))
		{
			inventory.GET("", inventoryHandler.GetInventory)
			inventory.GET("/status", inventoryHandler.GetInventoryStatus)
			inventory.PUT("/:product_id", inventoryHandler.UpdateInventory)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}

		// Dashboard (role-aware)
		v1.GET("/dashboard", middleware.AuthRequired(), adminHandler.GetDashboard)

		// Statistics routes (public)
		stats := v1.Group("/stats")
		{
			stats.GET("/platform", adminHandler.GetPlatformStats)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			// Supplier management
			adminSuppliers := admin.Group("/suppliers")
			{
				adminSuppliers.GET("", adminHandler.GetSuppliers)
				adminSuppliers.PUT("/:id/status", adminHandler.UpdateSupplierStatus)
				adminSuppliers.POST("/bulk-status", adminHandler.BulkUpdateSupplierStatus)
				adminSuppliers.POST("/:id/performance/refresh", adminHandler.RefreshSupplierPerformance)
			}

			// Order management
			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", adminHandler.GetOrders)
				adminOrders.GET("/export", adminHandler.ExportOrders)
				adminOrders.PUT("/:id/payment-status", adminHandler.UpdateOrderPaymentStatus)
			}

			// Category management
			adminCategories := admin.Group("/categories")
			{
				adminCategories.POST("", productHandler.CreateCategory)
			}
		}
	}

	return r
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": "1.0.0"})
}
