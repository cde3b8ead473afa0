package discountControllers

import (
	"crypto/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kedaihq/storefront-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PublicCode is the display-safe projection of a code for the storefront
// promo list. Restriction lists and usage counters stay internal.
type PublicCode struct {
	Code              string              `json:"code"`
	Name              string              `json:"name"`
	Type              models.DiscountType `json:"type"`
	Value             decimal.Decimal     `json:"value"`
	MinimumOrderValue *decimal.Decimal    `json:"minimum_order_value,omitempty"`
	ExpiresAt         *time.Time          `json:"expires_at,omitempty"`
	MemberOnly        bool                `json:"member_only"`
}

// ListPublicCodes returns up to 10 currently redeemable public codes, newest
// first.
func ListPublicCodes(db *gorm.DB, now time.Time) ([]PublicCode, error) {
	var codes []models.DiscountCode
	err := db.
		Where("is_public = ?", true).
		Where("status = ?", models.DiscountStatusActive).
		Where("starts_at <= ?", now).
		Where("expires_at IS NULL OR expires_at >= ?", now).
		Where("usage_limit IS NULL OR usage_count < usage_limit").
		Order("created_at DESC").
		Limit(10).
		Find(&codes).Error
	if err != nil {
		return nil, err
	}

	public := make([]PublicCode, 0, len(codes))
	for _, dc := range codes {
		public = append(public, PublicCode{
			Code:              dc.Code,
			Name:              dc.Name,
			Type:              dc.Type,
			Value:             dc.Value,
			MinimumOrderValue: dc.MinimumOrderValue,
			ExpiresAt:         dc.ExpiresAt,
			MemberOnly:        dc.MemberOnly,
		})
	}
	return public, nil
}

// GET /discounts
func GetPublicDiscountCodes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		codes, err := ListPublicCodes(db, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch discount codes"})
			return
		}
		c.JSON(http.StatusOK, codes)
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

const base36Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateCode produces a candidate code: prefix + base-36 timestamp + 4
// random base-36 characters, upper-cased. Callers must check the result
// against existing codes before persisting; uniqueness is not guaranteed
// here.
func GenerateCode(prefix string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	buf := make([]byte, 4)
	suffix := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		for i := range suffix {
			suffix[i] = 'X'
		}
	} else {
		for i, b := range buf {
			suffix[i] = base36Chars[int(b)%len(base36Chars)]
		}
	}

	return strings.ToUpper(prefix + ts + string(suffix))
}
