package productcontroller

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kedaihq/storefront-api/audit"
	"github.com/kedaihq/storefront-api/models"
	"gorm.io/gorm"
)

const uploadDir = "/var/www/storefront/uploads/products"
const publicPath = "/uploads/products"

// UpdateProduct updates an existing product by ID.
// Accepts the same fields as CreateProduct and an optional "image" file.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param("id")
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.Preload("Categories").First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		parseFloat := func(val string) *float64 {
			if val == "" {
				return nil
			}
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				return &f
			}
			return nil
		}
		parseInt := func(val string) *int {
			if val == "" {
				return nil
			}
			if i, err := strconv.Atoi(val); err == nil {
				return &i
			}
			return nil
		}

		// Parse form fields (optional updates)
		if v := c.PostForm("name"); v != "" {
			product.Name = v
		}
		if v := c.PostForm("description"); v != "" {
			product.Description = v
		}
		if v := parseFloat(c.PostForm("regular_price")); v != nil {
			product.RegularPrice = *v
		}
		if v := parseFloat(c.PostForm("member_price")); v != nil {
			product.MemberPrice = *v
		}
		if v := parseFloat(c.PostForm("base_cost")); v != nil {
			product.BaseCost = *v
		}
		if v := parseFloat(c.PostForm("weight")); v != nil {
			product.Weight = *v
		}
		if v := parseInt(c.PostForm("stock")); v != nil {
			product.Stock = *v
		}

		if product.MemberPrice > product.RegularPrice {
			c.JSON(http.StatusBadRequest, gin.H{"error": "member_price cannot exceed regular_price"})
			return
		}

		// Update categories if provided
		if categoryIDsStr := c.PostForm("category_ids"); categoryIDsStr != "" {
			idTokens := strings.Split(categoryIDsStr, ",")
			var parsedIDs []uint
			for _, tok := range idTokens {
				tok = strings.TrimSpace(tok)
				if tok == "" {
					continue
				}
				if id64, parseErr := strconv.ParseUint(tok, 10, 64); parseErr == nil {
					parsedIDs = append(parsedIDs, uint(id64))
				}
			}
			if len(parsedIDs) > 0 {
				var categories []models.Category
				if err := db.Where("id IN ?", parsedIDs).Find(&categories).Error; err == nil {
					if err := db.Model(&product).Association("Categories").Replace(categories); err != nil {
						c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update categories"})
						return
					}
				}
			}
		}

		// Handle optional image upload
		if file, err := c.FormFile("image"); err == nil {
			if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload folder"})
				return
			}

			// Delete old image if exists
			if product.Image != "" {
				oldPath := filepath.Join(uploadDir, filepath.Base(product.Image))
				_ = os.Remove(oldPath)
			}

			ext := filepath.Ext(file.Filename)
			base := strings.TrimSuffix(filepath.Base(file.Filename), ext)
			base = strings.ReplaceAll(base, " ", "_")

			filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), base, ext)
			savePath := filepath.Join(uploadDir, filename)

			if err := c.SaveUploadedFile(file, savePath); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
				return
			}

			product.Image = fmt.Sprintf("%s/%s", publicPath, filename)
		}

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		audit.Log(db, c.GetString("adminEmail"), "UPDATE", "product", idStr, product)

		c.JSON(http.StatusOK, product)
	}
}
