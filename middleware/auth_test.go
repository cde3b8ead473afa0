package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, role, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": email,
		"role":    role,
		"email":   email,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func adminRouter() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var actor string
	r := gin.New()
	r.GET("/admin/ping", ValidateToken, RequireAdmin, func(c *gin.Context) {
		actor = c.GetString("adminEmail")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, &actor
}

func getAdminPing(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Admin routes must identify the acting admin from the JWT so downstream
// handlers record a real email, not a placeholder.
func TestAdminChainRecordsActor(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r, actor := adminRouter()

	w := getAdminPing(r, signToken(t, "admin", "ops@kedai.my"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", w.Code, w.Body.String())
	}
	if *actor != "ops@kedai.my" {
		t.Fatalf("expected actor ops@kedai.my, got %q", *actor)
	}
}

func TestAdminChainAcceptsSuperadmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r, _ := adminRouter()

	w := getAdminPing(r, signToken(t, "superadmin", "root@kedai.my"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for superadmin, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminChainRejectsShopperRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r, _ := adminRouter()

	w := getAdminPing(r, signToken(t, "user", "shopper@example.com"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for shopper, got %d", w.Code)
	}
}

func TestAdminChainRejectsMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r, _ := adminRouter()

	w := getAdminPing(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}
