package productcontroller

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kedaihq/storefront-api/audit"
	"github.com/kedaihq/storefront-api/models"
	"gorm.io/gorm"
)

// CreateProduct creates a new product with multiple categories + image upload.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Required fields
		name := c.PostForm("name")
		regularPriceStr := c.PostForm("regular_price")
		weightStr := c.PostForm("weight")
		if name == "" || regularPriceStr == "" || weightStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, regular_price, and weight are required"})
			return
		}

		// Optional fields
		description := c.PostForm("description")
		memberPriceStr := c.PostForm("member_price")
		baseCostStr := c.PostForm("base_cost")
		stockStr := c.PostForm("stock")
		categoryIDsStr := c.PostForm("category_ids")

		// Convert numerics
		regularPrice, err := strconv.ParseFloat(regularPriceStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid regular_price"})
			return
		}
		weight, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid weight"})
			return
		}

		var memberPrice, baseCost float64
		if memberPriceStr != "" {
			if mp, parseErr := strconv.ParseFloat(memberPriceStr, 64); parseErr == nil {
				memberPrice = mp
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member_price"})
				return
			}
		}
		if memberPrice > regularPrice {
			c.JSON(http.StatusBadRequest, gin.H{"error": "member_price cannot exceed regular_price"})
			return
		}
		if baseCostStr != "" {
			if bc, parseErr := strconv.ParseFloat(baseCostStr, 64); parseErr == nil {
				baseCost = bc
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid base_cost"})
				return
			}
		}
		var stock int
		if stockStr != "" {
			if s, parseErr := strconv.Atoi(stockStr); parseErr == nil {
				stock = s
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
		}

		// Categories
		var categories []models.Category
		if categoryIDsStr != "" {
			idTokens := strings.Split(categoryIDsStr, ",")
			var parsedIDs []uint
			for _, tok := range idTokens {
				tok = strings.TrimSpace(tok)
				if tok == "" {
					continue
				}
				if id64, parseErr := strconv.ParseUint(tok, 10, 64); parseErr == nil {
					parsedIDs = append(parsedIDs, uint(id64))
				} else {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_ids format"})
					return
				}
			}
			if len(parsedIDs) > 0 {
				if err := db.Where("id IN ?", parsedIDs).Find(&categories).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
					return
				}
			}
		}

		// Image upload (optional)
		var imageURL string
		if file, err := c.FormFile("image"); err == nil {
			filename := strings.ReplaceAll(file.Filename, " ", "_")

			if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to create upload folder: %v", err)})
				return
			}
			savePath := filepath.Join(uploadDir, filename)

			if err := c.SaveUploadedFile(file, savePath); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to save image: %v", err)})
				return
			}

			imageURL = fmt.Sprintf("%s/%s", publicPath, filename)
		}

		// Transaction
		tx := db.Begin()
		if tx.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}

		newProduct := models.Product{
			Name:         name,
			Description:  description,
			RegularPrice: regularPrice,
			MemberPrice:  memberPrice,
			BaseCost:     baseCost,
			Weight:       weight,
			Stock:        stock,
			Image:        imageURL,
			Categories:   categories,
		}

		if err := tx.Create(&newProduct).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		if err := tx.Commit().Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		audit.Log(db, c.GetString("adminEmail"), "CREATE", "product", strconv.Itoa(int(newProduct.ID)), newProduct)

		c.JSON(http.StatusCreated, newProduct)
	}
}
