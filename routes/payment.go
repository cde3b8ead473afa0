package routes

import (
	"github.com/gin-gonic/gin"
	paymentControllers "github.com/kedaihq/storefront-api/controllers/payment"
	"github.com/kedaihq/storefront-api/middleware"
	"gorm.io/gorm"
)

func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB) {
	payments := r.Group("/payments")
	{
		payments.POST("/request", middleware.ValidateToken, paymentControllers.PaymentRequestHandler(db))

		// Gateway callback, signature-verified
		payments.POST("/webhook", middleware.PaymentWebhookAuth(), paymentControllers.WebhookHandler(db))
	}
}
