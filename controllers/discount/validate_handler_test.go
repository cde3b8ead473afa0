package discountControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kedaihq/storefront-api/middleware"
	"github.com/kedaihq/storefront-api/models"
	"gorm.io/gorm"
)

func validateRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/discounts/validate", middleware.OptionalAuth, ValidateDiscountHandler(db))
	return r
}

func signUserToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    "user",
		"email":   "member@example.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func seedMemberScenario(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Create(&models.User{ID: "u-member", Email: "member@example.com", IsMember: true}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := db.Create(&models.Product{Name: "Kopi O", RegularPrice: 50, Stock: 10, Weight: 0.5}).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	code := activeCode(models.DiscountPercentage, "10")
	code.Code = "MEMBERS10"
	code.MemberOnly = true
	seedCode(t, db, code)
}

func postValidate(t *testing.T, r *gin.Engine, token string) ValidationResult {
	t.Helper()
	body := `{"code":"MEMBERS10","items":[{"product_id":1,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/discounts/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result ValidationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return result
}

// A logged-in member validating a member-only code through the HTTP route must
// be recognized from the Authorization header.
func TestValidateHandlerRecognizesMember(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupDB(t)
	seedMemberScenario(t, db)
	r := validateRouter(db)

	result := postValidate(t, r, signUserToken(t, "u-member"))
	if !result.IsValid {
		t.Fatalf("expected member to pass member-only gate, got errors %v", result.Errors)
	}
	if !result.DiscountAmount.Equal(dec("5.00")) {
		t.Fatalf("expected 5.00 off, got %s", result.DiscountAmount)
	}
}

func TestValidateHandlerRejectsAnonymousOnMemberOnlyCode(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupDB(t)
	seedMemberScenario(t, db)
	r := validateRouter(db)

	result := postValidate(t, r, "")
	if result.IsValid {
		t.Fatal("expected anonymous caller to be rejected")
	}
	if len(result.Errors) != 1 || result.Errors[0] != errMemberOnly {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}
