package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string
type DiscountStatus string

const (
	DiscountPercentage   DiscountType = "PERCENTAGE"    // percent of applicable-items subtotal
	DiscountFixedAmount  DiscountType = "FIXED_AMOUNT"  // flat amount off the order
	DiscountFreeShipping DiscountType = "FREE_SHIPPING" // shipping cost substituted at checkout
	DiscountBuyXGetY     DiscountType = "BUY_X_GET_Y"   // approximated as percent of subtotal

	DiscountStatusActive   DiscountStatus = "ACTIVE"
	DiscountStatusInactive DiscountStatus = "INACTIVE"
	DiscountStatusArchived DiscountStatus = "ARCHIVED"
)

// DiscountCode is an admin-defined promotional rule. Codes are stored
// upper-cased and matched case-insensitively. UsageCount is only ever
// mutated through the conditional increment in the discount package.
type DiscountCode struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	Code              string           `gorm:"uniqueIndex;not null" json:"code"`
	Name              string           `json:"name"`
	Type              DiscountType     `gorm:"type:VARCHAR(20);not null" json:"type"`
	Value             decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"value"`
	Status            DiscountStatus   `gorm:"type:VARCHAR(20);default:'ACTIVE'" json:"status"`
	StartsAt          time.Time        `json:"starts_at"`
	ExpiresAt         *time.Time       `json:"expires_at,omitempty"`
	UsageLimit        *int             `json:"usage_limit,omitempty"` // nil = unlimited
	UsageCount        int              `gorm:"not null;default:0" json:"usage_count"`
	PerUserLimit      *int             `json:"per_user_limit,omitempty"`
	MinimumOrderValue *decimal.Decimal `gorm:"type:decimal(10,2)" json:"minimum_order_value,omitempty"`
	MaximumDiscount   *decimal.Decimal `gorm:"type:decimal(10,2)" json:"maximum_discount,omitempty"`
	MemberOnly        bool             `json:"member_only"`
	IsPublic          bool             `json:"is_public"` // shown on the storefront promo list

	// Restriction lists. Empty applicable lists mean "no restriction".
	ApplicableProducts   []Product  `gorm:"many2many:discount_applicable_products" json:"applicable_products,omitempty"`
	ApplicableCategories []Category `gorm:"many2many:discount_applicable_categories" json:"applicable_categories,omitempty"`
	ExcludedProducts     []Product  `gorm:"many2many:discount_excluded_products" json:"excluded_products,omitempty"`
	ExcludedCategories   []Category `gorm:"many2many:discount_excluded_categories" json:"excluded_categories,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DiscountUsage is the append-only redemption ledger. One row per successful
// application; immutable once created.
type DiscountUsage struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	DiscountCodeID uint            `gorm:"index;not null;uniqueIndex:idx_usage_code_order" json:"discount_code_id"`
	UserID         string          `gorm:"index" json:"user_id"`
	OrderID        uint            `gorm:"not null;uniqueIndex:idx_usage_code_order" json:"order_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	CreatedAt      time.Time       `json:"created_at"`
}
