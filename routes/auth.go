package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kedaihq/storefront-api/auth"
	"github.com/kedaihq/storefront-api/middleware"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		// Identity exchange endpoints are called server-to-server by the
		// storefront frontend, so they sit behind the API key.
		authGroup.POST("/login", middleware.ValidateAPIKey, auth.UserLoginHandler(db))
		authGroup.POST("/admin/login", middleware.ValidateAPIKey, auth.AdminLoginHandler(db))

		authGroup.POST("/guest", auth.CreateGuestUser(db))
	}
}
