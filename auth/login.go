package auth

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kedaihq/storefront-api/models"
	"gorm.io/gorm"
)

// UserLoginHandler exchanges an upstream-verified identity for a local user
// record and JWT. The storefront frontend authenticates the shopper and then
// calls this endpoint server-to-server (the route is API-key protected).
// POST /auth/login
func UserLoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email   string `json:"email" binding:"required,email"`
			Name    string `json:"name"`
			Picture string `json:"picture"`
			GuestID string `json:"guest_id"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		// Fetch or create user
		var user models.User
		err := db.Preload("Cart.Items").Where("email = ?", req.Email).First(&user).Error

		if err == gorm.ErrRecordNotFound {
			userID := "user_" + uuid.NewString()
			user = models.User{
				ID:      userID,
				Email:   req.Email,
				Name:    req.Name,
				Picture: req.Picture,
				Cart:    models.Cart{UserID: userID},
			}

			if err := db.Create(&user).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
				return
			}
		} else if err == nil {
			db.Model(&user).Updates(models.User{
				Name:    req.Name,
				Picture: req.Picture,
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		// Merge guest cart into user cart
		mergeStatus := "no-guest-cart"
		if req.GuestID != "" {
			merged, err := mergeGuestCartIntoUserCart(db, req.GuestID, user.ID)
			if err != nil {
				mergeStatus = "merge-failed"
			} else if merged {
				mergeStatus = "merged-success"
			} else {
				mergeStatus = "guest-cart-empty"
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Login successful",
			"merge_status": mergeStatus,
			"user":         user,
			"token":        issueJWT(user.Email, "user", user.ID),
		})
	}
}

// mergeGuestCartIntoUserCart moves the guest's cart lines into the user's
// cart, summing quantities for products already present.
func mergeGuestCartIntoUserCart(db *gorm.DB, guestID, userID string) (bool, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return false, tx.Error
	}

	var guestCart models.Cart
	if err := tx.Preload("Items").
		Where("user_id = ?", guestID).
		First(&guestCart).Error; err != nil {

		tx.Rollback()
		return false, nil // nothing to merge
	}

	var userCart models.Cart
	err := tx.Preload("Items").
		Where("user_id = ?", userID).
		First(&userCart).Error

	if err == gorm.ErrRecordNotFound {
		userCart = models.Cart{UserID: userID}
		if err := tx.Create(&userCart).Error; err != nil {
			tx.Rollback()
			return false, err
		}
	} else if err != nil {
		tx.Rollback()
		return false, err
	}

	merged := false
	for _, guestItem := range guestCart.Items {
		var userItem models.CartItem

		lookupErr := tx.Where(
			"cart_id = ? AND product_id = ?",
			userCart.CartID,
			guestItem.ProductID,
		).First(&userItem).Error

		if lookupErr == nil {
			userItem.Quantity += guestItem.Quantity
			userItem.AddedAt = time.Now()

			if err := tx.Save(&userItem).Error; err != nil {
				tx.Rollback()
				return false, err
			}
			merged = true

		} else if lookupErr == gorm.ErrRecordNotFound {
			newItem := models.CartItem{
				CartID:              userCart.CartID,
				ProductID:           guestItem.ProductID,
				ProductName:         guestItem.ProductName,
				ProductImage:        guestItem.ProductImage,
				ProductStock:        guestItem.ProductStock,
				ProductRegularPrice: guestItem.ProductRegularPrice,
				ProductMemberPrice:  guestItem.ProductMemberPrice,
				Weight:              guestItem.Weight,
				Quantity:            guestItem.Quantity,
				AddedAt:             time.Now(),
			}

			if err := tx.Create(&newItem).Error; err != nil {
				tx.Rollback()
				return false, err
			}
			merged = true

		} else {
			tx.Rollback()
			return false, lookupErr
		}
	}

	// Drop the guest cart and identity
	if err := tx.Where("cart_id = ?", guestCart.CartID).Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		return false, err
	}
	if err := tx.Delete(&guestCart).Error; err != nil {
		tx.Rollback()
		return false, err
	}
	if err := tx.Where("id = ?", guestID).Delete(&models.GuestUser{}).Error; err != nil {
		tx.Rollback()
		return false, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return false, err
	}

	return merged, nil
}

// issueJWT generates a signed token for a user session.
func issueJWT(email, role, userID string) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return ""
	}

	return signedToken
}
