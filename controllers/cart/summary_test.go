package cartControllers

import (
	"testing"

	"github.com/kedaihq/storefront-api/models"
	"github.com/shopspring/decimal"
)

func TestSummarizeMemberPricing(t *testing.T) {
	items := []models.CartItem{
		{ProductRegularPrice: 100, ProductMemberPrice: 80, Quantity: 1, Weight: 1},
		{ProductRegularPrice: 50, ProductMemberPrice: 0, Quantity: 2, Weight: 0.5},
	}

	subtotal, weight := Summarize(items, false)
	if !subtotal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("non-member subtotal = %s, want 200", subtotal)
	}

	memberSubtotal, _ := Summarize(items, true)
	// Member price applies only where the product has one; the second line
	// stays at the regular price.
	if !memberSubtotal.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("member subtotal = %s, want 180", memberSubtotal)
	}

	if weight != 2.0 {
		t.Fatalf("total weight = %v, want 2.0", weight)
	}
}

func TestSummarizeEmptyCart(t *testing.T) {
	subtotal, weight := Summarize(nil, true)
	if !subtotal.IsZero() || weight != 0 {
		t.Fatalf("empty cart should total zero, got %s / %v", subtotal, weight)
	}
}
