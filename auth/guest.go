package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kedaihq/storefront-api/models"
	"gorm.io/gorm"
)

const defaultGuestSessionHours = 24

// guestSessionTTL reads GUEST_SESSION_TTL_HOURS, falling back to 24h.
func guestSessionTTL() time.Duration {
	if v := os.Getenv("GUEST_SESSION_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return defaultGuestSessionHours * time.Hour
}

// CreateGuestUser registers a short-lived guest identity with its own cart,
// so guests browse and build a cart exactly like signed-in shoppers. The cart
// is merged into the user's cart if the guest later logs in.
// POST /auth/guest
func CreateGuestUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {

		guestID := "guest_" + generateRandomString(16)
		ttl := guestSessionTTL()

		guest := models.GuestUser{
			ID:        guestID,
			ExpiresAt: time.Now().Add(ttl),
		}
		cart := models.Cart{UserID: guestID}

		// Guest identity and cart land together or not at all
		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&guest).Error; err != nil {
				return err
			}
			return tx.Create(&cart).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guest"})
			return
		}

		token, err := issueGuestToken(guestID, ttl)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"guest_id":   guestID,
			"cart_id":    cart.CartID,
			"token":      token,
			"expires_at": guest.ExpiresAt,
		})
	}
}

func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "rand_guest"
	}
	return hex.EncodeToString(bytes)
}

// issueGuestToken signs a guest JWT that expires with the guest session.
func issueGuestToken(id string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": id,
		"role":    "guest",
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
