package auth

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kedaihq/storefront-api/models"
	"gorm.io/gorm"
)

// AdminLoginHandler exchanges an upstream-verified identity for an admin JWT.
// Unknown emails are registered as pending and rejected until a super admin
// approves them.
// POST /auth/admin/login
func AdminLoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email   string `json:"email" binding:"required,email"`
			Name    string `json:"name"`
			Picture string `json:"picture"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		superAdminEmail := os.Getenv("SUPER_ADMIN_EMAIL")

		// Super admin shortcut
		if req.Email == superAdminEmail {
			c.JSON(http.StatusOK, gin.H{
				"token": generateAdminJWT(req.Email, "superadmin"),
				"role":  "superadmin",
				"email": req.Email,
			})
			return
		}

		var admin models.Admin
		err := db.Where("email = ?", req.Email).First(&admin).Error
		if err == gorm.ErrRecordNotFound {
			// Create pending admin
			admin = models.Admin{
				Email:    req.Email,
				Name:     req.Name,
				Picture:  req.Picture,
				Approved: false,
			}
			if err := db.Create(&admin).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register admin"})
				return
			}
			log.Printf("📝 New admin registered: %s (pending approval)", req.Email)
			c.JSON(http.StatusForbidden, gin.H{"error": "Pending approval by super admin"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		// Update profile if changed
		if err := db.Model(&admin).Updates(models.Admin{Name: req.Name, Picture: req.Picture}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update admin info"})
			return
		}

		if !admin.Approved {
			c.JSON(http.StatusForbidden, gin.H{"error": "Pending approval by super admin"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":   generateAdminJWT(admin.Email, "admin"),
			"role":    "admin",
			"email":   admin.Email,
			"name":    admin.Name,
			"picture": admin.Picture,
		})
	}
}

func generateAdminJWT(email, role string) string {
	claims := jwt.MapClaims{
		"email":   email,
		"role":    role,
		"user_id": email,
		"exp":     time.Now().AddDate(0, 2, 0).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		log.Printf("❌ Failed to sign JWT: %v", err)
		return ""
	}
	return signed
}
