package discountControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kedaihq/storefront-api/audit"
	"github.com/kedaihq/storefront-api/models"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

type DiscountCodeInput struct {
	Code              string           `json:"code"`   // empty = generate from prefix
	Prefix            string           `json:"prefix"` // used when Code is empty
	Name              string           `json:"name" binding:"required"`
	Type              string           `json:"type" binding:"required"`
	Value             decimal.Decimal  `json:"value"`
	StartsAt          *time.Time       `json:"starts_at"`
	ExpiresAt         *time.Time       `json:"expires_at"`
	UsageLimit        *int             `json:"usage_limit"`
	PerUserLimit      *int             `json:"per_user_limit"`
	MinimumOrderValue *decimal.Decimal `json:"minimum_order_value"`
	MaximumDiscount   *decimal.Decimal `json:"maximum_discount"`
	MemberOnly        bool             `json:"member_only"`
	IsPublic          bool             `json:"is_public"`

	ApplicableProductIDs  []uint `json:"applicable_product_ids"`
	ApplicableCategoryIDs []uint `json:"applicable_category_ids"`
	ExcludedProductIDs    []uint `json:"excluded_product_ids"`
	ExcludedCategoryIDs   []uint `json:"excluded_category_ids"`
}

func mapDiscountType(t string) (models.DiscountType, error) {
	switch models.DiscountType(t) {
	case models.DiscountPercentage, models.DiscountFixedAmount,
		models.DiscountFreeShipping, models.DiscountBuyXGetY:
		return models.DiscountType(t), nil
	default:
		return "", errors.New("invalid discount type")
	}
}

// POST /admin/discounts
func CreateDiscountCode(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input DiscountCodeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		discountType, err := mapDiscountType(input.Type)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		code := input.Code
		if code == "" {
			// Generated codes are only candidates; retry on the rare
			// collision with an existing row.
			for attempt := 0; attempt < 5; attempt++ {
				candidate := GenerateCode(input.Prefix)
				var count int64
				if err := db.Model(&models.DiscountCode{}).Where("code = ?", candidate).Count(&count).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate code"})
					return
				}
				if count == 0 {
					code = candidate
					break
				}
			}
			if code == "" {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate a unique code"})
				return
			}
		}

		startsAt := time.Now()
		if input.StartsAt != nil {
			startsAt = *input.StartsAt
		}

		dc := models.DiscountCode{
			Code:              normalizeCode(code),
			Name:              input.Name,
			Type:              discountType,
			Value:             input.Value,
			Status:            models.DiscountStatusActive,
			StartsAt:          startsAt,
			ExpiresAt:         input.ExpiresAt,
			UsageLimit:        input.UsageLimit,
			PerUserLimit:      input.PerUserLimit,
			MinimumOrderValue: input.MinimumOrderValue,
			MaximumDiscount:   input.MaximumDiscount,
			MemberOnly:        input.MemberOnly,
			IsPublic:          input.IsPublic,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&dc).Error; err != nil {
				return err
			}
			return replaceRestrictions(tx, &dc, input)
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create discount code"})
			return
		}

		audit.Log(db, adminID(c), "CREATE", "discount_code", strconv.Itoa(int(dc.ID)), gin.H{"code": dc.Code})
		c.JSON(http.StatusCreated, dc)
	}
}

// PUT /admin/discounts/:id
func UpdateDiscountCode(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var dc models.DiscountCode
		if err := db.First(&dc, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Discount code not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch discount code"})
			return
		}

		var input DiscountCodeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		discountType, err := mapDiscountType(input.Type)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		dc.Name = input.Name
		dc.Type = discountType
		dc.Value = input.Value
		if input.StartsAt != nil {
			dc.StartsAt = *input.StartsAt
		}
		dc.ExpiresAt = input.ExpiresAt
		dc.UsageLimit = input.UsageLimit
		dc.PerUserLimit = input.PerUserLimit
		dc.MinimumOrderValue = input.MinimumOrderValue
		dc.MaximumDiscount = input.MaximumDiscount
		dc.MemberOnly = input.MemberOnly
		dc.IsPublic = input.IsPublic

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&dc).Error; err != nil {
				return err
			}
			return replaceRestrictions(tx, &dc, input)
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update discount code"})
			return
		}

		audit.Log(db, adminID(c), "UPDATE", "discount_code", id, gin.H{"code": dc.Code})
		c.JSON(http.StatusOK, dc)
	}
}

// PUT /admin/discounts/:id/status
func UpdateDiscountStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		status := models.DiscountStatus(req.Status)
		switch status {
		case models.DiscountStatusActive, models.DiscountStatusInactive, models.DiscountStatusArchived:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discount status"})
			return
		}

		result := db.Model(&models.DiscountCode{}).Where("id = ?", id).Update("status", status)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Discount code not found"})
			return
		}

		audit.Log(db, adminID(c), "UPDATE", "discount_code", id, gin.H{"status": status})
		c.JSON(http.StatusOK, gin.H{"message": "Discount status updated successfully"})
	}
}

// GET /admin/discounts
func GetAllDiscountCodes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var codes []models.DiscountCode
		if err := db.
			Preload("ApplicableProducts").
			Preload("ApplicableCategories").
			Preload("ExcludedProducts").
			Preload("ExcludedCategories").
			Order("created_at DESC").
			Find(&codes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch discount codes"})
			return
		}
		c.JSON(http.StatusOK, codes)
	}
}

// GET /admin/discounts/:id/usage
func GetDiscountUsage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var usage []models.DiscountUsage
		if err := db.Where("discount_code_id = ?", id).
			Order("created_at DESC").
			Find(&usage).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch usage"})
			return
		}
		c.JSON(http.StatusOK, usage)
	}
}

// GET /admin/discounts/export-excel
func ExportDiscountUsageToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var codes []models.DiscountCode
		if err := db.Order("created_at DESC").Find(&codes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch discount codes"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Discount Codes")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sheet"})
			return
		}

		header := sheet.AddRow()
		for _, title := range []string{"ID", "Code", "Name", "Type", "Value", "Status", "Usage Count", "Usage Limit", "Member Only", "Starts At", "Expires At"} {
			header.AddCell().SetString(title)
		}

		for _, dc := range codes {
			row := sheet.AddRow()
			row.AddCell().SetString(strconv.Itoa(int(dc.ID)))
			row.AddCell().SetString(dc.Code)
			row.AddCell().SetString(dc.Name)
			row.AddCell().SetString(string(dc.Type))
			row.AddCell().SetString(dc.Value.StringFixed(2))
			row.AddCell().SetString(string(dc.Status))
			row.AddCell().SetString(strconv.Itoa(dc.UsageCount))
			if dc.UsageLimit != nil {
				row.AddCell().SetString(strconv.Itoa(*dc.UsageLimit))
			} else {
				row.AddCell().SetString("unlimited")
			}
			row.AddCell().SetString(strconv.FormatBool(dc.MemberOnly))
			row.AddCell().SetString(dc.StartsAt.Format("2006-01-02"))
			if dc.ExpiresAt != nil {
				row.AddCell().SetString(dc.ExpiresAt.Format("2006-01-02"))
			} else {
				row.AddCell().SetString("")
			}
		}

		filename := fmt.Sprintf("discount-codes-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}

func replaceRestrictions(tx *gorm.DB, dc *models.DiscountCode, input DiscountCodeInput) error {
	if err := tx.Model(dc).Association("ApplicableProducts").Replace(productRefs(input.ApplicableProductIDs)); err != nil {
		return err
	}
	if err := tx.Model(dc).Association("ApplicableCategories").Replace(categoryRefs(input.ApplicableCategoryIDs)); err != nil {
		return err
	}
	if err := tx.Model(dc).Association("ExcludedProducts").Replace(productRefs(input.ExcludedProductIDs)); err != nil {
		return err
	}
	return tx.Model(dc).Association("ExcludedCategories").Replace(categoryRefs(input.ExcludedCategoryIDs))
}

func productRefs(ids []uint) []models.Product {
	refs := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, models.Product{ID: id})
	}
	return refs
}

func categoryRefs(ids []uint) []models.Category {
	refs := make([]models.Category, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, models.Category{ID: id})
	}
	return refs
}

func adminID(c *gin.Context) string {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return "admin"
}
