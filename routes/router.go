package routes

import (
	"context"
	"time"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/controllers"
	"github.com/americanbox/americanbox-api/logger"
	"github.com/americanbox/americanbox-api/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const limiterCleanupInterval = 10 * time.Minute

// SetupRouter builds the HTTP API. Rate limiter bookkeeping stops when ctx is done.
func SetupRouter(ctx context.Context, cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// Client IPs key the rate limiters, so X-Forwarded-For only counts from configured proxies.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Log.WithError(err).Warn("invalid trusted proxies, trusting none")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute)
	loginLimiter.StartCleanup(ctx, limiterCleanupInterval)
	trackingLimiter := middleware.NewRateLimiter(cfg.TrackingRatePerMinute)
	trackingLimiter.StartCleanup(ctx, limiterCleanupInterval)

	router.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))

	api := router.Group("/api")
	{
		api.GET("/health", controllers.HealthCheck)
		api.GET("/database/status", controllers.DatabaseStatus)

		api.POST("/register", controllers.Register)
		api.POST("/login", loginLimiter.Handler(), controllers.Login)
		api.POST("/logout", controllers.Logout)

		api.GET("/tracking/:guide", trackingLimiter.Handler(), controllers.TrackOrder)
		api.GET("/locations", controllers.ListLocations)
		api.GET("/providers", controllers.ListProviders)
	}

	session := api.Group("", middleware.RequireSession(cfg))
	{
		session.GET("/me", controllers.Me)
		session.PUT("/me/password", controllers.ChangePassword)
	}

	client := api.Group("/client", middleware.RequireSession(cfg))
	{
		client.GET("/stats", controllers.ClientStats)
		client.GET("/orders", controllers.ClientOrders)
		client.POST("/orders", controllers.CreatePreAlert)
		client.POST("/orders/:id/receipt", controllers.UploadReceipt)
		client.GET("/tracking/:guide", controllers.ClientTracking)
		client.GET("/profile", controllers.GetProfile)
		client.PUT("/profile", controllers.UpdateProfile)
		client.GET("/addresses", controllers.ListAddresses)
		client.POST("/addresses", controllers.CreateAddress)
		client.GET("/quote", controllers.ClientQuote)
		client.GET("/invoices", controllers.ClientInvoices)
		client.GET("/complaints", controllers.ClientComplaints)
		client.POST("/complaints", controllers.CreateComplaint)
	}

	admin := api.Group("/admin", middleware.RequireSession(cfg), middleware.RequireAdmin())
	{
		admin.GET("/orders", controllers.ListOrders)
		admin.POST("/orders", controllers.CreateOrder)
		admin.GET("/orders/bulk", controllers.GetBulkOrders)
		admin.PUT("/orders/bulk", controllers.BulkUpdateOrders)
		admin.GET("/orders/stats", controllers.GetOrderStats)
		admin.GET("/orders/:id", controllers.GetOrder)
		admin.PUT("/orders/:id", controllers.UpdateOrder)
		admin.DELETE("/orders/:id", controllers.DeleteOrder)
		admin.POST("/orders/:id/invoice", controllers.IssueInvoice)
		admin.GET("/quote", controllers.AdminQuote)

		admin.GET("/company", controllers.GetCompany)
		admin.PUT("/company", controllers.UpdateCompany)
		admin.GET("/location-settings", controllers.GetLocationSettings)
		admin.PUT("/location-settings", controllers.UpdateLocationSettings)

		admin.GET("/customers", controllers.ListCustomers)
		admin.POST("/customers", controllers.CreateCustomer)
		admin.GET("/customers/:id", controllers.GetCustomer)
		admin.PUT("/customers/:id", controllers.UpdateCustomer)
		admin.DELETE("/customers/:id", controllers.DeleteCustomer)

		admin.GET("/providers", controllers.ListProviders)
		admin.POST("/providers", controllers.CreateProvider)
		admin.GET("/providers/:id", controllers.GetProvider)
		admin.PUT("/providers/:id", controllers.UpdateProvider)
		admin.DELETE("/providers/:id", controllers.DeleteProvider)

		admin.GET("/complaints", controllers.ListComplaints)
		admin.PUT("/complaints/:id", controllers.UpdateComplaint)

		admin.GET("/invoices", controllers.ListInvoices)
		admin.PUT("/invoices/:id/pay", controllers.PayInvoice)

		admin.GET("/reports/packages", controllers.PackagesReport)
		admin.GET("/reports/clients", controllers.ClientsReport)
		admin.GET("/reports/orders/by-client", controllers.OrdersByClientReport)
		admin.GET("/reports/receivables", controllers.ReceivablesReport)
	}

	return router
}
