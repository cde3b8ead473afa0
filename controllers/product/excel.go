package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kedaihq/storefront-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// ImportProductsFromExcel upserts products from an uploaded spreadsheet.
// Rows with an ID column update the existing product; rows without create one.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]
			if len(row.Cells) < 9 {
				skippedCount++
				continue
			}

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			idStr := get(0)
			name := get(1)
			description := get(2)
			regularPrice, err1 := strconv.ParseFloat(get(3), 64)
			memberPrice, _ := strconv.ParseFloat(get(4), 64)
			baseCost, _ := strconv.ParseFloat(get(5), 64)
			weight, err2 := strconv.ParseFloat(get(6), 64)
			stock, _ := strconv.ParseFloat(get(7), 64)
			image := get(8)
			categoryIDStr := get(9)

			if name == "" || err1 != nil || err2 != nil {
				skippedCount++
				continue
			}

			var categories []models.Category
			for _, part := range strings.Split(categoryIDStr, ",") {
				if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
					categories = append(categories, models.Category{ID: uint(id)})
				}
			}

			product := models.Product{
				Name:         name,
				Description:  description,
				RegularPrice: regularPrice,
				MemberPrice:  memberPrice,
				BaseCost:     baseCost,
				Weight:       weight,
				Stock:        int(stock),
				Image:        image,
				Categories:   categories,
			}

			if idStr != "" {
				if id, err := strconv.Atoi(idStr); err == nil {
					var existing models.Product
					if err := db.Preload("Categories").First(&existing, id).Error; err == nil {
						existing.Name = product.Name
						existing.Description = product.Description
						existing.RegularPrice = product.RegularPrice
						existing.MemberPrice = product.MemberPrice
						existing.BaseCost = product.BaseCost
						existing.Weight = product.Weight
						existing.Stock = product.Stock
						existing.Image = product.Image

						if err := db.Model(&existing).Association("Categories").Replace(categories); err != nil {
							skippedCount++
							continue
						}

						if err := db.Save(&existing).Error; err == nil {
							updatedCount++
							continue
						}
						skippedCount++
						continue
					}
				}
			}

			if err := db.Create(&product).Error; err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"created": createdCount,
			"updated": updatedCount,
			"skipped": skippedCount,
		})
	}
}
