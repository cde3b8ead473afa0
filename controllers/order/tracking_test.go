package orderControllers

import (
	"strings"
	"testing"

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
	if err := db.AutoMigrate(&models.User{}, &models.Cart{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestAggregateTrackingStatuses(t *testing.T) {
	db := setupDB(t)

	seed := []models.Order{
		{OrderRef: "r1", UserID: "u1", TrackingNo: "TN1", TrackingStatus: "in_transit"},
		{OrderRef: "r2", UserID: "u1", TrackingNo: "TN2", TrackingStatus: "in_transit"},
		{OrderRef: "r3", UserID: "u2", TrackingNo: "TN3", TrackingStatus: "delivered"},
		{OrderRef: "r4", UserID: "u2", TrackingNo: "TN4"}, // no status yet
		{OrderRef: "r5", UserID: "u3"},                    // not shipped, excluded
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed order: %v", err)
		}
	}

	summary, err := AggregateTrackingStatuses(db)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if summary.Total != 4 {
		t.Fatalf("expected 4 tracked orders, got %d", summary.Total)
	}
	if summary.ByStatus["in_transit"] != 2 {
		t.Fatalf("expected 2 in_transit, got %d", summary.ByStatus["in_transit"])
	}
	if summary.ByStatus["delivered"] != 1 {
		t.Fatalf("expected 1 delivered, got %d", summary.ByStatus["delivered"])
	}
	if summary.ByStatus["unknown"] != 1 {
		t.Fatalf("expected 1 unknown, got %d", summary.ByStatus["unknown"])
	}
}

func TestMapOrderStatus(t *testing.T) {
	if _, err := mapOrderStatus("Shipped"); err != nil {
		t.Fatalf("expected case-insensitive match, got %v", err)
	}
	if _, err := mapOrderStatus("bogus"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestGenerateOrderRef(t *testing.T) {
	ref := generateOrderRef()
	if !strings.Contains(ref, "-") {
		t.Fatalf("unexpected ref format: %q", ref)
	}
	if generateOrderRef() == ref {
		t.Fatal("expected unique refs")
	}
}
