package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/kedaihq/storefront-api/controllers/admin"
	articleControllers "github.com/kedaihq/storefront-api/controllers/article"
	cartControllers "github.com/kedaihq/storefront-api/controllers/cart"
	chatControllers "github.com/kedaihq/storefront-api/controllers/chat"
	discountControllers "github.com/kedaihq/storefront-api/controllers/discount"
	orderControllers "github.com/kedaihq/storefront-api/controllers/order"
	productcontroller "github.com/kedaihq/storefront-api/controllers/product"
	userControllers "github.com/kedaihq/storefront-api/controllers/user"
	"github.com/kedaihq/storefront-api/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all “/admin/*” endpoints. Requires API‐Key middleware.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	// API key gates access; the admin JWT identifies the actor so audit rows
	// carry a real email.
	adminGroup.Use(middleware.ValidateAPIKey, middleware.ValidateToken, middleware.RequireAdmin)
	{
		// ─────────── Admin & User Management ───────────
		adminGroup.GET("/admins", adminController.GetAllAdmins(db))
		adminGroup.GET("/users", userControllers.GetAllUsers(db))
		adminGroup.PUT("/users/:id/membership", userControllers.SetMembership(db))
		adminGroup.GET("/audit-logs", adminController.GetAuditLogs(db))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(db))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(db))
			productAdmin.GET("", productcontroller.GetProducts(db))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(db))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(db))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(db))
		}

		// ─────────── Category Management ───────────
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productcontroller.CreateCategory(db))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(db))
			categoryAdmin.GET("", productcontroller.GetAllCategoriesWithProducts(db))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(db))
		}

		// ─────────── Discount Code Management ───────────
		discountAdmin := adminGroup.Group("/discounts")
		{
			discountAdmin.POST("", discountControllers.CreateDiscountCode(db))
			discountAdmin.GET("", discountControllers.GetAllDiscountCodes(db))
			discountAdmin.PUT("/:id", discountControllers.UpdateDiscountCode(db))
			discountAdmin.PUT("/:id/status", discountControllers.UpdateDiscountStatus(db))
			discountAdmin.GET("/:id/usage", discountControllers.GetDiscountUsage(db))
			discountAdmin.GET("/:id/usage/export-excel", discountControllers.ExportDiscountUsageToExcel(db))
		}

		// ─────────── Content Management ───────────
		articleAdmin := adminGroup.Group("/articles")
		{
			articleAdmin.GET("", articleControllers.GetAllArticles(db))
			articleAdmin.POST("", articleControllers.CreateArticle(db))
			articleAdmin.PUT("/:id", articleControllers.UpdateArticle(db))
			articleAdmin.DELETE("/:id", articleControllers.DeleteArticle(db))
		}

		// ─────────── Admin Approval Workflow ───────────
		adminMgmt := adminGroup.Group("/admin-management")
		{
			adminMgmt.GET("/pending", adminController.ListPendingAdmins(db))
			adminMgmt.POST("/approve", adminController.ApproveAdmin(db))
			adminMgmt.POST("/reject", adminController.RejectAdmin(db))
		}

		bannerMgmt := adminGroup.Group("/banner")
		{
			bannerMgmt.POST("/upload", adminController.UploadBanner(db))
			bannerMgmt.GET("/", adminController.GetBanners(db))
			bannerMgmt.DELETE("/:id", adminController.DeleteBanner(db))
		}

		cartMgmt := adminGroup.Group("/user-cart")
		{
			cartMgmt.GET("/:user_id", cartControllers.GetAdminUserCart(db))
		}

		// ─────────── Shipment Tracking ───────────
		adminGroup.PUT("/orders/:orderID/shipment", orderControllers.SetShipmentHandler(db))
		adminGroup.GET("/orders/tracking-summary", orderControllers.TrackingSummaryHandler(db))

		// ─────────── Support Chat Monitoring ───────────
		adminGroup.GET("/chat/rooms", chatControllers.ActiveChatRooms)
		adminGroup.GET("/chat/ws", chatControllers.AdminChatMonitorHandler)
	}
}
