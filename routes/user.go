package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/kedaihq/storefront-api/controllers/cart"
	userControllers "github.com/kedaihq/storefront-api/controllers/user"
	"github.com/kedaihq/storefront-api/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all “/user/*” endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/", userControllers.GetUser(db))                   // GET /user/
		userGroup.PUT("/", userControllers.UpdateUser(db))                // PUT /user/
		userGroup.POST("/membership", userControllers.JoinMembership(db)) // POST /user/membership

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(db))                  // GET /user/cart
			cartGroup.POST("/", cartControllers.UpdateCartItem(db))              // POST /user/cart
			cartGroup.POST("/summary", cartControllers.GetCartSummary(db))       // POST /user/cart/summary
			cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(db)) // DELETE /user/cart/:product_id
			cartGroup.DELETE("/", cartControllers.ClearUserCart(db))             // DELETE /user/cart
		}
	}
}
