package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/kedaihq/storefront-api/controllers/order"
	"github.com/kedaihq/storefront-api/middleware"
	"gorm.io/gorm"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	{
		// Create a new order
		orders.POST("/place", middleware.ValidateToken, orderControllers.PlaceOrderHandler(db))

		// Fetch all orders (admin)
		orders.GET("/", middleware.ValidateAPIKey, orderControllers.GetAllOrdersHandler(db))

		// websocket endpoint for real-time order updates
		orders.GET("/ws/orders", orderControllers.OrderWebSocketHandler)

		// Fetch orders for a specific user
		orders.GET("/user/:userID", middleware.ValidateToken, orderControllers.GetUserOrdersHandler(db))

		// Fetch a single order by ID or reference
		orders.GET("/:orderID", middleware.ValidateToken, orderControllers.GetOrderByIDHandler(db))

		// Update order status (e.g., shipped, cancelled)
		orders.PUT("/:orderID/status", middleware.ValidateAPIKey, orderControllers.UpdateOrderStatusHandler(db))

		// Update payment status (e.g., paid, refunded)
		orders.PUT("/:orderID/payment-status", middleware.ValidateAPIKey, orderControllers.UpdatePaymentStatusHandler(db))
	}
}
