package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Requests beyond the burst from one client must be turned away with 429.
func TestRateLimitDeniesBeyondBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/limited", RateLimit(rate.Limit(1), 3), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/limited", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 within burst, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/limited", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 beyond burst, got %d", w.Code)
	}
}

func TestRateLimitTracksClientsSeparately(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/limited", RateLimit(rate.Limit(1), 1), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	first := httptest.NewRequest(http.MethodPost, "/limited", nil)
	first.RemoteAddr = "203.0.113.10:5000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, first)
	if w.Code != http.StatusOK {
		t.Fatalf("expected first client to pass, got %d", w.Code)
	}

	exhausted := httptest.NewRequest(http.MethodPost, "/limited", nil)
	exhausted.RemoteAddr = "203.0.113.10:5000"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, exhausted)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected first client to be throttled, got %d", w.Code)
	}

	other := httptest.NewRequest(http.MethodPost, "/limited", nil)
	other.RemoteAddr = "203.0.113.99:5000"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, other)
	if w.Code != http.StatusOK {
		t.Fatalf("expected a different client to pass, got %d", w.Code)
	}
}
