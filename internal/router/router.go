package router

import (
	"database/sql"
	"time"

	"sijuk_backend/internal/handlers"
	"sijuk_backend/internal/middleware"
	"sijuk_backend/internal/repositories"
	"sijuk_backend/internal/services"
	"sijuk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) error {
	// Initialize Repositories
	userRepo := repositories.NewUserRepository(db)
	restaurantRepo := repositories.NewRestaurantRepository(db)
	productRepo := repositories.NewProductRepository(db)
	movementRepo := repositories.NewStockMovementRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Initialize Services
	authServiceURL := utils.Getenv("AUTH_SERVICE_URL", "")
	var authService services.AuthService
	if authServiceURL != "" {
		authService = services.NewRemoteAuthService(authServiceURL, userRepo)
	} else {
		authService = services.NewLocalAuthService(userRepo)
	}
	adminService := services.NewAdminService(restaurantRepo, userRepo, authService)
	catalogService := services.NewCatalogService(restaurantRepo, productRepo, movementRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, restaurantRepo, movementRepo, notificationRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	statsService := services.NewStatsService(restaurantRepo, productRepo, orderRepo, userRepo)
	systemService := services.NewSystemService(userRepo, authService)

	// Initialize Handlers
	authHandler, err := handlers.NewAuthHandler(authService, authServiceURL)
	if err != nil {
		return err
	}
	adminHandler := handlers.NewAdminHandler(adminService)
	ownerHandler := handlers.NewOwnerHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(orderService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	systemHandler := handlers.NewSystemHandler(statsService, systemService)

	// Rate limiters: a tighter budget for the auth surface, a wider one
	// for the API proper.
	authLimiter := middleware.NewRateLimiter(60, time.Minute)
	apiLimiter := middleware.NewRateLimiter(120, time.Minute)

	// Public system endpoints
	engine.GET("/health", systemHandler.Health)
	engine.GET("/openapi.json", systemHandler.OpenAPI)
	engine.GET("/docs", systemHandler.Docs)
	engine.GET("/stats", middleware.AuthMiddleware(userRepo), systemHandler.Stats)

	// Auth surface (embedded identity or reverse proxy)
	authGroup := engine.Group("/api/auth")
	authGroup.Use(authLimiter.Middleware())
	authHandler.RegisterRoutes(authGroup)

	apiV1 := engine.Group("/api/v1")
	apiV1.Use(apiLimiter.Middleware())

	// Bootstrap endpoint stays public; it refuses to run twice.
	apiV1.POST("/system/seed-super-admin", systemHandler.SeedSuperAdmin)

	// Authenticated routes
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(userRepo))
	{
		SetupAdminRoutes(authenticated, adminHandler)
		SetupOwnerRoutes(authenticated, ownerHandler)
		SetupOrderRoutes(authenticated, orderHandler)
		SetupNotificationRoutes(authenticated, notificationHandler)
	}

	return nil
}
