package discountControllers

import (
	"fmt"
	"time"

	"github.com/kedaihq/storefront-api/models"
	"github.com/shopspring/decimal"
)

// Validation error messages shown directly to the shopper.
const (
	errCodeNotFound  = "Invalid discount code"
	errNotActive     = "This discount code is no longer active"
	errNotStarted    = "This discount code is not yet active"
	errExpired       = "This discount code has expired"
	errUsageLimit    = "This discount code has reached its usage limit"
	errPerUserLimit  = "You have reached the usage limit for this discount code"
	errMemberOnly    = "This discount code is only available for members"
	errNotApplicable = "This discount code is not applicable to items in your cart"
	errValidation    = "Error validating discount code"
)

// CartItem is the transient line-item shape the evaluator works on. The unit
// price is the already-resolved (member or regular) price.
type CartItem struct {
	ProductID   uint
	CategoryIDs []uint
	Quantity    int
	UnitPrice   decimal.Decimal
}

// CodeSummary is the compact echo of a matched code returned on success.
type CodeSummary struct {
	ID   uint                `json:"id"`
	Code string              `json:"code"`
	Name string              `json:"name"`
	Type models.DiscountType `json:"type"`
}

type ValidationResult struct {
	IsValid        bool                `json:"is_valid"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	DiscountType   models.DiscountType `json:"discount_type,omitempty"`
	Errors         []string            `json:"errors"`
	DiscountCode   *CodeSummary        `json:"discount_code,omitempty"`
}

func invalid(msg string) ValidationResult {
	return ValidationResult{
		IsValid:        false,
		DiscountAmount: decimal.Zero,
		Errors:         []string{msg},
	}
}

// Evaluate runs the redemption gates in order, short-circuiting on the first
// failure, and computes the discount amount when every gate passes. It touches
// no storage; Validate is the DB-backed entry point.
//
// userUsage is the number of prior redemptions by userID; guests (empty
// userID) are exempt from the per-user gate.
func Evaluate(dc *models.DiscountCode, userID string, userUsage int64, items []CartItem, subtotal decimal.Decimal, isMember bool, now time.Time) ValidationResult {
	if dc == nil {
		return invalid(errCodeNotFound)
	}
	if dc.Status != models.DiscountStatusActive {
		return invalid(errNotActive)
	}
	if now.Before(dc.StartsAt) {
		return invalid(errNotStarted)
	}
	if dc.ExpiresAt != nil && now.After(*dc.ExpiresAt) {
		return invalid(errExpired)
	}
	if dc.UsageLimit != nil && dc.UsageCount >= *dc.UsageLimit {
		return invalid(errUsageLimit)
	}
	if userID != "" && dc.PerUserLimit != nil && userUsage >= int64(*dc.PerUserLimit) {
		return invalid(errPerUserLimit)
	}
	if dc.MemberOnly && !isMember {
		return invalid(errMemberOnly)
	}
	if dc.MinimumOrderValue != nil && subtotal.LessThan(*dc.MinimumOrderValue) {
		return invalid(fmt.Sprintf("Minimum order value of RM%s is required", dc.MinimumOrderValue.StringFixed(2)))
	}

	applicable := ApplicableItems(dc, items)
	if len(applicable) == 0 {
		return invalid(errNotApplicable)
	}

	amount := computeAmount(dc, applicable, subtotal)
	if dc.MaximumDiscount != nil && amount.GreaterThan(*dc.MaximumDiscount) {
		amount = *dc.MaximumDiscount
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	amount = amount.Round(2)

	return ValidationResult{
		IsValid:        true,
		DiscountAmount: amount,
		DiscountType:   dc.Type,
		Errors:         []string{},
		DiscountCode: &CodeSummary{
			ID:   dc.ID,
			Code: dc.Code,
			Name: dc.Name,
			Type: dc.Type,
		},
	}
}

// ApplicableItems filters the cart down to the items the code may act on.
// Each restriction list applies independently; an item passes only if it
// satisfies every rule that is present.
func ApplicableItems(dc *models.DiscountCode, items []CartItem) []CartItem {
	includeProducts := productIDSet(dc.ApplicableProducts)
	excludeProducts := productIDSet(dc.ExcludedProducts)
	includeCategories := categoryIDSet(dc.ApplicableCategories)
	excludeCategories := categoryIDSet(dc.ExcludedCategories)

	var applicable []CartItem
	for _, item := range items {
		if len(includeCategories) > 0 && !inAnyCategory(item, includeCategories) {
			continue
		}
		if len(includeProducts) > 0 && !includeProducts[item.ProductID] {
			continue
		}
		if inAnyCategory(item, excludeCategories) {
			continue
		}
		if excludeProducts[item.ProductID] {
			continue
		}
		applicable = append(applicable, item)
	}
	return applicable
}

func computeAmount(dc *models.DiscountCode, applicable []CartItem, subtotal decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)

	switch dc.Type {
	case models.DiscountPercentage:
		// Percentage applies to the applicable-items subtotal only, not the
		// whole cart.
		applicableTotal := decimal.Zero
		for _, item := range applicable {
			applicableTotal = applicableTotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		return applicableTotal.Mul(dc.Value).Div(hundred)
	case models.DiscountFixedAmount:
		return dc.Value
	case models.DiscountFreeShipping:
		// Zero at validation time. Checkout substitutes the real shipping
		// cost once it is known.
		return decimal.Zero
	case models.DiscountBuyXGetY:
		// Approximated as a percentage of the full subtotal. Real
		// buy-X-get-Y semantics need quantity rules the code model does not
		// carry yet.
		return subtotal.Mul(dc.Value).Div(hundred)
	default:
		return decimal.Zero
	}
}

func productIDSet(products []models.Product) map[uint]bool {
	set := make(map[uint]bool, len(products))
	for _, p := range products {
		set[p.ID] = true
	}
	return set
}

func categoryIDSet(categories []models.Category) map[uint]bool {
	set := make(map[uint]bool, len(categories))
	for _, c := range categories {
		set[c.ID] = true
	}
	return set
}

func inAnyCategory(item CartItem, set map[uint]bool) bool {
	for _, id := range item.CategoryIDs {
		if set[id] {
			return true
		}
	}
	return false
}
