package orderControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	discountControllers "github.com/kedaihq/storefront-api/controllers/discount"
	"github.com/kedaihq/storefront-api/models"
	"github.com/kedaihq/storefront-api/shipping"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// -------- Request Structs --------
type PlaceOrderRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"` // e.g. "fpx", "card", "cod"
	DiscountCode  string `json:"discount_code"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// -------- Helpers --------

// Map string to OrderStatus
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusConfirmed):
		return models.OrderStatusConfirmed, nil
	case string(models.OrderStatusReadyToShip):
		return models.OrderStatusReadyToShip, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusReturned):
		return models.OrderStatusReturned, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// Map string to PaymentStatus
func mapPaymentStatus(status string) (models.PaymentStatus, error) {
	switch strings.ToLower(status) {
	case string(models.PaymentStatusPending):
		return models.PaymentStatusPending, nil
	case string(models.PaymentStatusPaid):
		return models.PaymentStatusPaid, nil
	case string(models.PaymentStatusFailed):
		return models.PaymentStatusFailed, nil
	case string(models.PaymentStatusRefunded):
		return models.PaymentStatusRefunded, nil
	default:
		return "", errors.New("invalid payment status")
	}
}

// Generate unique order reference
func generateOrderRef() string {
	// Example: 20250908130500-<uuid4>
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// -------- Core Logic --------

// PlaceOrder converts the user's cart into an order inside one transaction:
// stock is locked and deducted, member pricing resolved, the discount code
// re-validated, and discount usage recorded through the conditional-increment
// path. Any failure rolls back everything.
func PlaceOrder(db *gorm.DB, req PlaceOrderRequest) (*models.Order, error) {
	var user models.User
	if err := db.First(&user, "id = ?", req.UserID).Error; err != nil {
		return nil, errors.New("user not found")
	}

	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", req.UserID).First(&cart).Error; err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, errors.New("cart is empty")
	}

	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		subtotal := decimal.Zero
		totalWeight := 0.0
		var orderItems []models.OrderItem
		var evalItems []discountControllers.CartItem

		// Process cart items
		for _, item := range cart.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Preload("Categories").
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}

			if product.Stock < item.Quantity {
				return errors.New("insufficient stock for product: " + product.Name)
			}

			// Deduct stock
			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			appliedPrice := product.RegularPrice
			if user.IsMember && product.MemberPrice > 0 {
				appliedPrice = product.MemberPrice
			}

			unit := decimal.NewFromFloat(appliedPrice)
			subtotal = subtotal.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
			totalWeight += product.Weight * float64(item.Quantity)

			categoryIDs := make([]uint, 0, len(product.Categories))
			for _, cat := range product.Categories {
				categoryIDs = append(categoryIDs, cat.ID)
			}
			evalItems = append(evalItems, discountControllers.CartItem{
				ProductID:   product.ID,
				CategoryIDs: categoryIDs,
				Quantity:    item.Quantity,
				UnitPrice:   unit,
			})

			orderItems = append(orderItems, models.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: product.Image,
				RegularPrice: product.RegularPrice,
				AppliedPrice: appliedPrice,
				Weight:       product.Weight,
				Quantity:     item.Quantity,
			})
		}

		shippingCost := decimal.NewFromFloat(shipping.Rate(totalWeight))

		// Re-validate the discount against what the order actually contains.
		discountAmount := decimal.Zero
		var discountCodeID *uint
		if req.DiscountCode != "" {
			result := discountControllers.Validate(tx, req.DiscountCode, req.UserID, evalItems, subtotal, user.IsMember)
			if !result.IsValid {
				return errors.New(result.Errors[0])
			}
			if result.DiscountType == models.DiscountFreeShipping {
				// The deferred free-shipping amount is the shipping cost,
				// which is only known here.
				discountAmount = shippingCost
			} else {
				discountAmount = result.DiscountAmount
			}
			discountCodeID = &result.DiscountCode.ID
		}

		total := subtotal.Add(shippingCost).Sub(discountAmount).Round(2)
		subtotalFloat, _ := subtotal.Round(2).Float64()
		shippingFloat, _ := shippingCost.Float64()
		totalFloat, _ := total.Float64()

		order = models.Order{
			OrderRef:       generateOrderRef(),
			UserID:         req.UserID,
			Items:          orderItems,
			Subtotal:       subtotalFloat,
			ShippingCost:   shippingFloat,
			DiscountCodeID: discountCodeID,
			DiscountAmount: discountAmount.Round(2),
			TotalAmount:    totalFloat,
			Status:         models.OrderStatusPending,
			PaymentStatus:  models.PaymentStatusPending,
			PaymentMethod:  req.PaymentMethod,
			CreatedAt:      time.Now(),
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Record the redemption inside the same transaction so the order and
		// the usage ledger commit or roll back together.
		if discountCodeID != nil {
			if err := discountControllers.ApplyToOrderTx(tx, *discountCodeID, order.ID, req.UserID, order.DiscountAmount); err != nil {
				if errors.Is(err, discountControllers.ErrUsageLimitReached) {
					return errors.New("This discount code has reached its usage limit")
				}
				return err
			}
		}

		// Clear cart items
		return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// Place order (user)
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := PlaceOrder(db, req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		broadcastNewOrder(*order)
		c.JSON(http.StatusOK, gin.H{"message": "Order placed successfully", "order_ref": order.OrderRef})
	}
}

func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userID is required"})
			return
		}
		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// Get single order by ID or order_ref
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		var order models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Where("id = ? OR order_ref = ?", id, id).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// Update order status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := db.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

// Update payment status
func UpdatePaymentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapPaymentStatus(req.PaymentStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := db.Model(&models.Order{}).Where("id = ?", orderID).
			Update("payment_status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update payment status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully"})
	}
}
