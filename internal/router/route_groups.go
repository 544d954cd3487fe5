package router

import (
	"sijuk_backend/internal/handlers"
	"sijuk_backend/internal/middleware"
	"sijuk_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes sets up the admin restaurant management routes.
func SetupAdminRoutes(authenticatedGroup *gin.RouterGroup, adminHandler *handlers.AdminHandler) {
	adminRoutes := authenticatedGroup.Group("/admin")
	adminRoutes.Use(middleware.RequirePermission(models.OpManageRestaurants))
	{
		adminRoutes.POST("/restaurants", adminHandler.CreateOwnerWithRestaurant)
		adminRoutes.GET("/restaurants", adminHandler.ListRestaurants)
		adminRoutes.PATCH("/restaurants/:id", adminHandler.UpdateRestaurant)
	}
}

// SetupOwnerRoutes sets up the owner catalog and stock routes.
func SetupOwnerRoutes(authenticatedGroup *gin.RouterGroup, ownerHandler *handlers.OwnerHandler) {
	ownerRoutes := authenticatedGroup.Group("/owner")
	{
		ownerRoutes.GET("/restaurants", middleware.RequirePermission(models.OpViewRestaurants), ownerHandler.MyRestaurants)

		productRoutes := ownerRoutes.Group("/products")
		productRoutes.Use(middleware.RequirePermission(models.OpManageProducts))
		{
			productRoutes.GET("", ownerHandler.ListProducts)
			productRoutes.POST("", ownerHandler.CreateProduct)
			productRoutes.PATCH("/:id", ownerHandler.UpdateProduct)
			productRoutes.DELETE("/:id", ownerHandler.DeleteProduct)
		}

		ownerRoutes.POST("/stock/adjust", middleware.RequirePermission(models.OpAdjustStock), ownerHandler.AdjustStock)
		ownerRoutes.GET("/stock/movements", middleware.RequirePermission(models.OpAdjustStock), ownerHandler.ListStockMovements)
	}
}

// SetupOrderRoutes sets up the order routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	orderRoutes.Use(middleware.RequirePermission(models.OpViewOrders))
	{
		orderRoutes.POST("", middleware.RequirePermission(models.OpCreateOrder), orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)
		orderRoutes.PATCH("/:id/status", middleware.RequirePermission(models.OpUpdateOrderStatus), orderHandler.UpdateOrderStatus)
	}
}

// SetupNotificationRoutes sets up the notification routes.
func SetupNotificationRoutes(authenticatedGroup *gin.RouterGroup, notificationHandler *handlers.NotificationHandler) {
	notificationRoutes := authenticatedGroup.Group("/notifications")
	notificationRoutes.Use(middleware.RequirePermission(models.OpViewNotifications))
	{
		notificationRoutes.GET("", notificationHandler.ListNotifications)
		notificationRoutes.PATCH("/:id/read", notificationHandler.MarkNotificationRead)
	}
}
