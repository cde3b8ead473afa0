package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/kedaihq/storefront-api/controllers/admin"
	articleControllers "github.com/kedaihq/storefront-api/controllers/article"
	chatControllers "github.com/kedaihq/storefront-api/controllers/chat"
	discountControllers "github.com/kedaihq/storefront-api/controllers/discount"
	productcontroller "github.com/kedaihq/storefront-api/controllers/product"
	"github.com/kedaihq/storefront-api/middleware"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// SetupPublicRoutes registers the unauthenticated storefront endpoints.
func SetupPublicRoutes(r *gin.Engine, db *gorm.DB) {
	// ──────────────── Catalogue ────────────────
	r.GET("/products", productcontroller.GetProducts(db))
	r.GET("/products/:id", productcontroller.GetProductByID(db))
	r.GET("/categories", productcontroller.GetAllCategories(db))
	r.GET("/categories/:id", productcontroller.GetCategoryByID(db))

	// ──────────────── Storefront content ────────────────
	r.GET("/banners", adminController.GetBanners(db))
	r.GET("/articles", articleControllers.GetPublishedArticles(db))
	r.GET("/articles/:slug", articleControllers.GetArticleBySlug(db))

	// ──────────────── Discount codes ────────────────
	discounts := r.Group("/discounts")
	{
		discounts.GET("/public", discountControllers.GetPublicDiscountCodes(db))

		// Rate-limited so codes cannot be brute-forced. OptionalAuth keeps
		// the caller's identity when a token is sent, so member-only and
		// per-user gates see the real user; guests pass through anonymous.
		discounts.POST("/validate",
			middleware.RateLimit(rate.Limit(5), 10),
			middleware.OptionalAuth,
			discountControllers.ValidateDiscountHandler(db))
	}

	// ──────────────── Support chat ────────────────
	r.GET("/ws/chat/:room", chatControllers.ChatWebSocketHandler)
}
