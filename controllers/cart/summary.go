package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	discountControllers "github.com/kedaihq/storefront-api/controllers/discount"
	"github.com/kedaihq/storefront-api/models"
	"github.com/kedaihq/storefront-api/shipping"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartSummary struct {
	Items          []models.CartItem `json:"items"`
	IsMember       bool              `json:"is_member"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	TotalWeight    float64           `json:"total_weight"`
	ShippingCost   decimal.Decimal   `json:"shipping_cost"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	DiscountErrors []string          `json:"discount_errors,omitempty"`
	Total          decimal.Decimal   `json:"total"`
}

// Summarize totals a cart at the prices the caller actually pays: members get
// member prices where products carry one.
func Summarize(items []models.CartItem, isMember bool) (decimal.Decimal, float64) {
	subtotal := decimal.Zero
	totalWeight := 0.0
	for _, item := range items {
		unit := decimal.NewFromFloat(item.AppliedUnitPrice(isMember))
		subtotal = subtotal.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
		totalWeight += item.Weight * float64(item.Quantity)
	}
	return subtotal.Round(2), totalWeight
}

type summaryRequest struct {
	DiscountCode string `json:"discount_code"`
}

// POST /user/cart/summary
// Prices the stored cart, optionally evaluating a discount code. For
// FREE_SHIPPING codes the deferred amount becomes the shipping cost, which is
// known here.
func GetCartSummary(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		// body is optional; an empty body means "no code"
		var req summaryRequest
		_ = c.ShouldBindJSON(&req)

		var user models.User
		if err := db.Select("id", "is_member").First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, CartSummary{Items: []models.CartItem{}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		subtotal, totalWeight := Summarize(cart.Items, user.IsMember)
		shippingCost := decimal.NewFromFloat(shipping.Rate(totalWeight))

		summary := CartSummary{
			Items:          cart.Items,
			IsMember:       user.IsMember,
			Subtotal:       subtotal,
			TotalWeight:    totalWeight,
			ShippingCost:   shippingCost,
			DiscountAmount: decimal.Zero,
		}

		if req.DiscountCode != "" {
			items := evaluatorItems(db, cart.Items, user.IsMember)
			result := discountControllers.Validate(db, req.DiscountCode, userID, items, subtotal, user.IsMember)
			if result.IsValid {
				if result.DiscountType == models.DiscountFreeShipping {
					summary.DiscountAmount = shippingCost
				} else {
					summary.DiscountAmount = result.DiscountAmount
				}
			} else {
				summary.DiscountErrors = result.Errors
			}
		}

		summary.Total = subtotal.Add(shippingCost).Sub(summary.DiscountAmount).Round(2)
		c.JSON(http.StatusOK, summary)
	}
}

func evaluatorItems(db *gorm.DB, cartItems []models.CartItem, isMember bool) []discountControllers.CartItem {
	items := make([]discountControllers.CartItem, 0, len(cartItems))
	for _, ci := range cartItems {
		var product models.Product
		categoryIDs := []uint{}
		if err := db.Preload("Categories").First(&product, ci.ProductID).Error; err == nil {
			for _, cat := range product.Categories {
				categoryIDs = append(categoryIDs, cat.ID)
			}
		}
		items = append(items, discountControllers.CartItem{
			ProductID:   ci.ProductID,
			CategoryIDs: categoryIDs,
			Quantity:    ci.Quantity,
			UnitPrice:   decimal.NewFromFloat(ci.AppliedUnitPrice(isMember)),
		})
	}
	return items
}
