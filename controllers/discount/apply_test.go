package discountControllers

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/kedaihq/storefront-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.DiscountCode{},
		&models.DiscountUsage{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCode(t *testing.T, db *gorm.DB, dc *models.DiscountCode) *models.DiscountCode {
	t.Helper()
	if err := db.Create(dc).Error; err != nil {
		t.Fatalf("seed discount code: %v", err)
	}
	return dc
}

func TestValidateUnknownCode(t *testing.T) {
	db := setupDB(t)
	items := []CartItem{item(1, nil, 1, "100.00")}

	result := Validate(db, "NOPE", "u1", items, cartSubtotal(items), false)
	if result.IsValid {
		t.Fatal("expected invalid result")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Invalid discount code" {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if !result.DiscountAmount.IsZero() {
		t.Fatalf("expected zero discount, got %s", result.DiscountAmount)
	}
}

func TestValidateMatchesCaseInsensitively(t *testing.T) {
	db := setupDB(t)
	seedCode(t, db, &models.DiscountCode{
		Code:     "SAVE10",
		Name:     "Save Ten",
		Type:     models.DiscountPercentage,
		Value:    dec("10"),
		Status:   models.DiscountStatusActive,
		StartsAt: time.Now().Add(-time.Hour),
	})
	items := []CartItem{item(1, nil, 1, "200.00")}

	result := Validate(db, "save10", "u1", items, cartSubtotal(items), false)
	if !result.IsValid {
		t.Fatalf("expected valid result, got errors %v", result.Errors)
	}
	if !result.DiscountAmount.Equal(dec("20.00")) {
		t.Fatalf("expected 20.00, got %s", result.DiscountAmount)
	}
}

func TestApplyThenValidateReflectsUsage(t *testing.T) {
	db := setupDB(t)
	dc := seedCode(t, db, &models.DiscountCode{
		Code:         "ONCE",
		Name:         "Once Per User",
		Type:         models.DiscountFixedAmount,
		Value:        dec("5"),
		Status:       models.DiscountStatusActive,
		StartsAt:     time.Now().Add(-time.Hour),
		PerUserLimit: intPtr(1),
	})
	items := []CartItem{item(1, nil, 1, "50.00")}
	subtotal := cartSubtotal(items)

	before := Validate(db, "ONCE", "u1", items, subtotal, false)
	if !before.IsValid {
		t.Fatalf("expected valid before apply, got %v", before.Errors)
	}

	if err := ApplyToOrder(db, dc.ID, 101, "u1", dec("5.00")); err != nil {
		t.Fatalf("apply: %v", err)
	}

	after := Validate(db, "ONCE", "u1", items, subtotal, false)
	if after.IsValid {
		t.Fatal("expected per-user rejection after apply")
	}
	if after.Errors[0] != "You have reached the usage limit for this discount code" {
		t.Fatalf("unexpected error: %v", after.Errors)
	}

	// A different user is unaffected.
	other := Validate(db, "ONCE", "u2", items, subtotal, false)
	if !other.IsValid {
		t.Fatalf("expected other user to pass, got %v", other.Errors)
	}

	var reloaded models.DiscountCode
	if err := db.First(&reloaded, dc.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.UsageCount != 1 {
		t.Fatalf("expected usage count 1, got %d", reloaded.UsageCount)
	}
	var ledger int64
	db.Model(&models.DiscountUsage{}).Where("discount_code_id = ?", dc.ID).Count(&ledger)
	if ledger != 1 {
		t.Fatalf("expected one ledger row, got %d", ledger)
	}
}

func TestApplyRejectsAtGlobalLimitAndRollsBack(t *testing.T) {
	db := setupDB(t)
	dc := seedCode(t, db, &models.DiscountCode{
		Code:       "FULL",
		Name:       "Exhausted",
		Type:       models.DiscountFixedAmount,
		Value:      dec("5"),
		Status:     models.DiscountStatusActive,
		StartsAt:   time.Now().Add(-time.Hour),
		UsageLimit: intPtr(1),
		UsageCount: 1,
	})

	err := ApplyToOrder(db, dc.ID, 202, "u1", dec("5.00"))
	if !errors.Is(err, ErrUsageLimitReached) {
		t.Fatalf("expected ErrUsageLimitReached, got %v", err)
	}

	// The ledger insert must roll back with the rejected increment.
	var ledger int64
	db.Model(&models.DiscountUsage{}).Where("discount_code_id = ?", dc.ID).Count(&ledger)
	if ledger != 0 {
		t.Fatalf("expected no ledger rows after rollback, got %d", ledger)
	}
	var reloaded models.DiscountCode
	if err := db.First(&reloaded, dc.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.UsageCount != 1 {
		t.Fatalf("usage count must stay at limit, got %d", reloaded.UsageCount)
	}
}

func TestValidateIdempotentWithoutApply(t *testing.T) {
	db := setupDB(t)
	seedCode(t, db, &models.DiscountCode{
		Code:     "STABLE",
		Name:     "Stable",
		Type:     models.DiscountPercentage,
		Value:    dec("15"),
		Status:   models.DiscountStatusActive,
		StartsAt: time.Now().Add(-time.Hour),
	})
	items := []CartItem{item(1, nil, 3, "10.00")}
	subtotal := cartSubtotal(items)

	first := Validate(db, "STABLE", "u1", items, subtotal, false)
	second := Validate(db, "STABLE", "u1", items, subtotal, false)
	if first.IsValid != second.IsValid || !first.DiscountAmount.Equal(second.DiscountAmount) {
		t.Fatalf("validation not idempotent: %+v vs %+v", first, second)
	}
}

func TestListPublicCodesFiltersAndOrders(t *testing.T) {
	db := setupDB(t)
	now := time.Now()
	past := now.Add(-time.Minute)

	seedCode(t, db, &models.DiscountCode{
		Code: "OLDPUBLIC", Name: "Older", Type: models.DiscountPercentage, Value: dec("5"),
		Status: models.DiscountStatusActive, StartsAt: now.Add(-2 * time.Hour), IsPublic: true,
		CreatedAt: now.Add(-2 * time.Hour),
	})
	seedCode(t, db, &models.DiscountCode{
		Code: "NEWPUBLIC", Name: "Newer", Type: models.DiscountPercentage, Value: dec("10"),
		Status: models.DiscountStatusActive, StartsAt: now.Add(-time.Hour), IsPublic: true,
		CreatedAt: now.Add(-time.Hour),
	})
	seedCode(t, db, &models.DiscountCode{
		Code: "PRIVATE", Name: "Private", Type: models.DiscountPercentage, Value: dec("10"),
		Status: models.DiscountStatusActive, StartsAt: past, IsPublic: false,
	})
	seedCode(t, db, &models.DiscountCode{
		Code: "EXPIRED", Name: "Expired", Type: models.DiscountPercentage, Value: dec("10"),
		Status: models.DiscountStatusActive, StartsAt: now.Add(-2 * time.Hour), ExpiresAt: &past, IsPublic: true,
	})
	seedCode(t, db, &models.DiscountCode{
		Code: "SPENT", Name: "Spent", Type: models.DiscountPercentage, Value: dec("10"),
		Status: models.DiscountStatusActive, StartsAt: past, IsPublic: true,
		UsageLimit: intPtr(3), UsageCount: 3,
	})
	seedCode(t, db, &models.DiscountCode{
		Code: "PAUSED", Name: "Paused", Type: models.DiscountPercentage, Value: dec("10"),
		Status: models.DiscountStatusInactive, StartsAt: past, IsPublic: true,
	})

	codes, err := ListPublicCodes(db, now)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(codes) != 2 {
		t.Fatalf("expected 2 public codes, got %d", len(codes))
	}
	if codes[0].Code != "NEWPUBLIC" || codes[1].Code != "OLDPUBLIC" {
		t.Fatalf("expected newest-first ordering, got %s then %s", codes[0].Code, codes[1].Code)
	}
}
