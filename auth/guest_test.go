package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
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
		&models.GuestUser{},
		&models.Cart{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCreateGuestUserCreatesCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GUEST_SESSION_TTL_HOURS", "2")
	db := setupDB(t)

	r := gin.New()
	r.POST("/auth/guest", CreateGuestUser(db))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/guest", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		GuestID   string    `json:"guest_id"`
		CartID    uint      `json:"cart_id"`
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(resp.GuestID, "guest_") {
		t.Fatalf("unexpected guest id %q", resp.GuestID)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}

	// Guest row respects the configured TTL
	var guest models.GuestUser
	if err := db.First(&guest, "id = ?", resp.GuestID).Error; err != nil {
		t.Fatalf("guest row missing: %v", err)
	}
	ttl := time.Until(guest.ExpiresAt)
	if ttl < time.Hour || ttl > 3*time.Hour {
		t.Fatalf("expected ~2h session, got %s", ttl)
	}

	// Cart row is created alongside the guest identity
	var cart models.Cart
	if err := db.First(&cart, "user_id = ?", resp.GuestID).Error; err != nil {
		t.Fatalf("guest cart missing: %v", err)
	}
	if cart.CartID != resp.CartID {
		t.Fatalf("response cart_id %d does not match stored %d", resp.CartID, cart.CartID)
	}
}
