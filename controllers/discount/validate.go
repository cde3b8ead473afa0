package discountControllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kedaihq/storefront-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Validate loads the code and the caller's usage history, then evaluates the
// gates. Infrastructure faults never surface to the caller; they collapse to
// a single generic validation error (logged for operators).
func Validate(db *gorm.DB, code, userID string, items []CartItem, subtotal decimal.Decimal, isMember bool) ValidationResult {
	code = strings.TrimSpace(code)
	if code == "" {
		return invalid(errCodeNotFound)
	}

	var dc models.DiscountCode
	err := db.
		Preload("ApplicableProducts").
		Preload("ApplicableCategories").
		Preload("ExcludedProducts").
		Preload("ExcludedCategories").
		Where("UPPER(code) = ?", strings.ToUpper(code)).
		First(&dc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid(errCodeNotFound)
		}
		log.Printf("❌ Discount lookup failed for %q: %v", code, err)
		return invalid(errValidation)
	}

	// Guests carry no usage history, so the per-user gate never fires for
	// them.
	var userUsage int64
	if userID != "" && dc.PerUserLimit != nil {
		if err := db.Model(&models.DiscountUsage{}).
			Where("discount_code_id = ? AND user_id = ?", dc.ID, userID).
			Count(&userUsage).Error; err != nil {
			log.Printf("❌ Discount usage lookup failed for %q: %v", code, err)
			return invalid(errValidation)
		}
	}

	return Evaluate(&dc, userID, userUsage, items, subtotal, isMember, time.Now())
}

type validateRequest struct {
	Code  string `json:"code" binding:"required"`
	Items []struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,min=1"`
	} `json:"items"`
}

// POST /discounts/validate
// Authenticated users validate against their stored cart; guests send the
// items inline.
func ValidateDiscountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		userID, isMember := resolveCaller(db, c)

		var items []CartItem
		if userID != "" && len(req.Items) == 0 {
			cartItems, err := loadCartItems(db, userID, isMember)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
				return
			}
			items = cartItems
		} else {
			built, err := buildItems(db, req, isMember)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			items = built
		}

		subtotal := decimal.Zero
		for _, item := range items {
			subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		result := Validate(db, req.Code, userID, items, subtotal, isMember)
		c.JSON(http.StatusOK, result)
	}
}

// resolveCaller maps the JWT subject to a real user. Guest tokens (or tokens
// for since-deleted users) are treated as anonymous callers.
func resolveCaller(db *gorm.DB, c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, _ := userIDVal.(string)
	if id == "" {
		return "", false
	}

	var user models.User
	if err := db.Select("id", "is_member").First(&user, "id = ?", id).Error; err != nil {
		return "", false
	}
	return user.ID, user.IsMember
}

func loadCartItems(db *gorm.DB, userID string, isMember bool) ([]CartItem, error) {
	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	items := make([]CartItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		categoryIDs, err := productCategoryIDs(db, ci.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, CartItem{
			ProductID:   ci.ProductID,
			CategoryIDs: categoryIDs,
			Quantity:    ci.Quantity,
			UnitPrice:   decimal.NewFromFloat(ci.AppliedUnitPrice(isMember)),
		})
	}
	return items, nil
}

func buildItems(db *gorm.DB, req validateRequest, isMember bool) ([]CartItem, error) {
	items := make([]CartItem, 0, len(req.Items))
	for _, in := range req.Items {
		var product models.Product
		if err := db.Preload("Categories").First(&product, in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("Product does not exist")
			}
			return nil, errors.New("Failed to validate product")
		}

		price := product.RegularPrice
		if isMember && product.MemberPrice > 0 {
			price = product.MemberPrice
		}
		categoryIDs := make([]uint, 0, len(product.Categories))
		for _, cat := range product.Categories {
			categoryIDs = append(categoryIDs, cat.ID)
		}
		items = append(items, CartItem{
			ProductID:   product.ID,
			CategoryIDs: categoryIDs,
			Quantity:    in.Quantity,
			UnitPrice:   decimal.NewFromFloat(price),
		})
	}
	return items, nil
}

func productCategoryIDs(db *gorm.DB, productID uint) ([]uint, error) {
	var product models.Product
	if err := db.Preload("Categories").First(&product, productID).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(product.Categories))
	for _, cat := range product.Categories {
		ids = append(ids, cat.ID)
	}
	return ids, nil
}
