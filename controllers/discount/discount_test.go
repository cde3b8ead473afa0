package discountControllers

import (
	"strings"
	"testing"
	"time"

	"github.com/kedaihq/storefront-api/models"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(n int) *int {
	return &n
}

func activeCode(t models.DiscountType, value string) *models.DiscountCode {
	return &models.DiscountCode{
		ID:       1,
		Code:     "SAVE10",
		Name:     "Save Ten",
		Type:     t,
		Value:    dec(value),
		Status:   models.DiscountStatusActive,
		StartsAt: time.Now().Add(-time.Hour),
	}
}

func item(productID uint, categoryIDs []uint, qty int, unitPrice string) CartItem {
	return CartItem{
		ProductID:   productID,
		CategoryIDs: categoryIDs,
		Quantity:    qty,
		UnitPrice:   dec(unitPrice),
	}
}

func cartSubtotal(items []CartItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return subtotal
}

func TestEvaluateUnknownCode(t *testing.T) {
	result := Evaluate(nil, "u1", 0, nil, decimal.Zero, false, time.Now())
	if result.IsValid {
		t.Fatal("expected invalid result for unknown code")
	}
	if !result.DiscountAmount.IsZero() {
		t.Fatalf("expected zero discount, got %s", result.DiscountAmount)
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Invalid discount code" {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestEvaluatePercentageUsesApplicableSubtotal(t *testing.T) {
	dc := activeCode(models.DiscountPercentage, "10")
	items := []CartItem{item(1, nil, 2, "100.00")}

	result := Evaluate(dc, "u1", 0, items, cartSubtotal(items), false, time.Now())
	if !result.IsValid {
		t.Fatalf("expected valid result, got errors %v", result.Errors)
	}
	if !result.DiscountAmount.Equal(dec("20.00")) {
		t.Fatalf("expected discount 20.00, got %s", result.DiscountAmount)
	}
	if result.DiscountCode == nil || result.DiscountCode.Code != "SAVE10" {
		t.Fatalf("expected code echo, got %+v", result.DiscountCode)
	}
}

func TestEvaluateFixedAmountClippedToSubtotal(t *testing.T) {
	dc := activeCode(models.DiscountFixedAmount, "50")
	items := []CartItem{item(1, nil, 1, "30.00")}

	result := Evaluate(dc, "u1", 0, items, cartSubtotal(items), false, time.Now())
	if !result.IsValid {
		t.Fatalf("expected valid result, got errors %v", result.Errors)
	}
	if !result.DiscountAmount.Equal(dec("30.00")) {
		t.Fatalf("expected discount clipped to 30.00, got %s", result.DiscountAmount)
	}
}

func TestEvaluateMaximumDiscountCap(t *testing.T) {
	dc := activeCode(models.DiscountPercentage, "25")
	dc.MaximumDiscount = decPtr("15.00")
	items := []CartItem{item(1, nil, 1, "100.00")}

	result := Evaluate(dc, "u1", 0, items, cartSubtotal(items), false, time.Now())
	if !result.IsValid {
		t.Fatalf("expected valid result, got errors %v", result.Errors)
	}
	if !result.DiscountAmount.Equal(dec("15.00")) {
		t.Fatalf("expected discount capped at 15.00, got %s", result.DiscountAmount)
	}
}

func TestEvaluateMemberOnlyRejectsNonMembers(t *testing.T) {
	dc := activeCode(models.DiscountPercentage, "10")
	dc.MemberOnly = true
	items := []CartItem{item(1, nil, 1, "100.00")}

	result := Evaluate(dc, "u1", 0, items, cartSubtotal(items), false, time.Now())
	if result.IsValid {
		t.Fatal("expected member-only rejection")
	}
	if result.Errors[0] != "This discount code is only available for members" {
		t.Fatalf("unexpected error: %v", result.Errors)
	}

	member := Evaluate(dc, "u1", 0, items, cartSubtotal(items), true, time.Now())
	if !member.IsValid {
		t.Fatalf("expected member to pass, got errors %v", member.Errors)
	}
}

func TestEvaluateGlobalUsageLimitExhausted(t *testing.T) {
	dc := activeCode(models.DiscountPercentage, "10")
	dc.UsageLimit = intPtr(5)
	dc.UsageCount = 5
	items := []CartItem{item(1, nil, 1, "100.00")}

	// A brand-new user still fails once the global quota is spent.
	result := Evaluate(dc, "fresh-user", 0, items, cartSubtotal(items), false, time.Now())
	if result.IsValid {
		t.Fatal("expected quota rejection")
	}
	if result.Errors[0] != "This discount code has reached its usage limit" {
		t.Fatalf("unexpected error: %v", result.Errors)
	}
}

func TestEvaluatePerUserLimit(t *testing.T) {
	dc := activeCode(models.DiscountPercentage, "10")
	dc.PerUserLimit = intPtr(1)
	items := []CartItem{item(1, nil, 1, "100.00")}
	subtotal := cartSubtotal(items)

	used := Evaluate(dc, "u1", 1, items, subtotal, false, time.Now())
	if used.IsValid {
		t.Fatal("expected per-user rejection after one redemption")
	}
	if used.Errors[0] != "You have reached the usage limit for this discount code" {
		t.Fatalf("unexpected error: %v", used.Errors)
	}

	// Guests have no identity to count against; the gate never fires.
	guest := Evaluate(dc, "", 0, items, subtotal, false, time.Now())
	if !guest.IsValid {
		t.Fatalf("expected guest to pass, got errors %v", guest.Errors)
	}
}

func TestEvaluateLifecycleGates(t *testing.T) {
	now := time.Now()
	items := []CartItem{item(1, nil, 1, "100.00")}
	subtotal := cartSubtotal(items)

	inactive := activeCode(models.DiscountPercentage, "10")
	inactive.Status = models.DiscountStatusInactive
	if result := Evaluate(inactive, "u1", 0, items, subtotal, false, now); result.IsValid || result.Errors[0] != "This discount code is no longer active" {
		t.Fatalf("expected inactive rejection, got %+v", result)
	}

	future := activeCode(models.DiscountPercentage, "10")
	future.StartsAt = now.Add(time.Hour)
	if result := Evaluate(future, "u1", 0, items, subtotal, false, now); result.IsValid || result.Errors[0] != "This discount code is not yet active" {
		t.Fatalf("expected not-yet-active rejection, got %+v", result)
	}

	expired := activeCode(models.DiscountPercentage, "10")
	past := now.Add(-time.Minute)
	expired.ExpiresAt = &past
	if result := Evaluate(expired, "u1", 0, items, subtotal, false, now); result.IsValid || result.Errors[0] != "This discount code has expired" {
		t.Fatalf("expected expired rejection, got %+v", result)
	}

	// Gates short-circuit in order: an inactive code that is also expired
	// reports only the status failure.
	both := activeCode(models.DiscountPercentage, "10")
	both.Status = models.DiscountStatusInactive
	both.ExpiresAt = &past
	result := Evaluate(both, "u1", 0, items, subtotal, false, now)
	if len(result.Errors) != 1 || result.Errors[0] != "This discount code is no longer active" {
		t.Fatalf("expected single status error, got %v", result.Errors)
	}
}

func TestEvaluateMinimumOrderValue(t *testing.T) {
	dc := activeCode(models.DiscountPercentage, "10")
	dc.MinimumOrderValue = decPtr("50.00")
	items := []CartItem{item(1, nil, 1, "30.00")}

	result := Evaluate(dc, "u1", 0, items, cartSubtotal(items), false, time.Now())
	if result.IsValid {
		t.Fatal("expected minimum-order rejection")
	}
	if !strings.Contains(result.Errors[0], "RM50.00") {
		t.Fatalf("expected formatted minimum in message, got %q", result.Errors[0])
	}
}

func TestEvaluateCategoryRestriction(t *testing.T) {
	dc := activeCode(models.DiscountPercentage, "20")
	dc.ApplicableCategories = []models.Category{{ID: 10, Name: "A"}}
	items := []CartItem{
		item(1, []uint{10}, 1, "100.00"),
		item(2, []uint{20}, 1, "50.00"),
	}

	result := Evaluate(dc, "u1", 0, items, cartSubtotal(items), false, time.Now())
	if !result.IsValid {
		t.Fatalf("expected valid result, got errors %v", result.Errors)
	}
	// 20% of the 100.00 from category A only; category B is ignored.
	if !result.DiscountAmount.Equal(dec("20.00")) {
		t.Fatalf("expected discount 20.00, got %s", result.DiscountAmount)
	}
}

func TestEvaluateExclusionsRemoveItems(t *testing.T) {
	dc := activeCode(models.DiscountPercentage, "10")
	dc.ExcludedProducts = []models.Product{{ID: 1}}
	dc.ExcludedCategories = []models.Category{{ID: 30}}

	items := []CartItem{
		item(1, nil, 1, "100.00"),       // excluded by product
		item(2, []uint{30}, 1, "40.00"), // excluded by category
	}
	result := Evaluate(dc, "u1", 0, items, cartSubtotal(items), false, time.Now())
	if result.IsValid {
		t.Fatal("expected rejection when no item is applicable")
	}
	if result.Errors[0] != "This discount code is not applicable to items in your cart" {
		t.Fatalf("unexpected error: %v", result.Errors)
	}

	// An inclusion list that misses every item behaves the same way.
	allow := activeCode(models.DiscountPercentage, "10")
	allow.ApplicableProducts = []models.Product{{ID: 99}}
	result = Evaluate(allow, "u1", 0, items, cartSubtotal(items), false, time.Now())
	if result.IsValid {
		t.Fatal("expected rejection when allow-list misses the cart")
	}
}

func TestEvaluateEmptyCartNotApplicable(t *testing.T) {
	dc := activeCode(models.DiscountPercentage, "10")
	result := Evaluate(dc, "u1", 0, nil, decimal.Zero, false, time.Now())
	if result.IsValid {
		t.Fatal("expected rejection for empty cart")
	}
}

func TestEvaluateFreeShippingDefersAmount(t *testing.T) {
	dc := activeCode(models.DiscountFreeShipping, "0")
	items := []CartItem{item(1, nil, 1, "100.00")}

	result := Evaluate(dc, "u1", 0, items, cartSubtotal(items), false, time.Now())
	if !result.IsValid {
		t.Fatalf("expected valid result, got errors %v", result.Errors)
	}
	if !result.DiscountAmount.IsZero() {
		t.Fatalf("free shipping must defer to checkout, got amount %s", result.DiscountAmount)
	}
	if result.DiscountType != models.DiscountFreeShipping {
		t.Fatalf("unexpected type %s", result.DiscountType)
	}
}

func TestEvaluateBuyXGetYApproximation(t *testing.T) {
	dc := activeCode(models.DiscountBuyXGetY, "50")
	dc.ApplicableCategories = []models.Category{{ID: 10}}
	items := []CartItem{
		item(1, []uint{10}, 1, "100.00"),
		item(2, []uint{20}, 1, "100.00"),
	}

	// The approximation takes the percentage of the FULL subtotal, not the
	// applicable subset.
	result := Evaluate(dc, "u1", 0, items, cartSubtotal(items), false, time.Now())
	if !result.IsValid {
		t.Fatalf("expected valid result, got errors %v", result.Errors)
	}
	if !result.DiscountAmount.Equal(dec("100.00")) {
		t.Fatalf("expected discount 100.00, got %s", result.DiscountAmount)
	}
}

func TestEvaluateRoundsToTwoDecimals(t *testing.T) {
	dc := activeCode(models.DiscountPercentage, "10")
	items := []CartItem{item(1, nil, 1, "33.33")}

	result := Evaluate(dc, "u1", 0, items, cartSubtotal(items), false, time.Now())
	if !result.DiscountAmount.Equal(dec("3.33")) {
		t.Fatalf("expected 3.33 after rounding, got %s", result.DiscountAmount)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	dc := activeCode(models.DiscountPercentage, "10")
	items := []CartItem{item(1, nil, 2, "100.00")}
	subtotal := cartSubtotal(items)
	now := time.Now()

	first := Evaluate(dc, "u1", 0, items, subtotal, false, now)
	second := Evaluate(dc, "u1", 0, items, subtotal, false, now)
	if first.IsValid != second.IsValid || !first.DiscountAmount.Equal(second.DiscountAmount) {
		t.Fatalf("repeated evaluation diverged: %+v vs %+v", first, second)
	}
}

func TestGenerateCode(t *testing.T) {
	code := GenerateCode("SAVE")
	if !strings.HasPrefix(code, "SAVE") {
		t.Fatalf("expected SAVE prefix, got %q", code)
	}
	rest := strings.TrimPrefix(code, "SAVE")
	if rest == "" {
		t.Fatal("expected generated suffix after prefix")
	}
	for _, r := range rest {
		if !strings.ContainsRune(base36Chars, r) {
			t.Fatalf("unexpected character %q in generated code %q", r, code)
		}
	}

	lower := GenerateCode("save")
	if lower != strings.ToUpper(lower) {
		t.Fatalf("expected upper-cased code, got %q", lower)
	}
}
