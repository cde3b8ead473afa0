package shipping

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sony/gobreaker"
)

func TestStatusReturnsCourierState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-KEY") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("tracking_no") != "TN1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"status":"in_transit","description":"Parcel at hub"}`))
	}))
	defer srv.Close()

	client := NewTrackingClient(srv.URL, "k")
	status, err := client.Status(context.Background(), "jnt", "TN1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != "in_transit" {
		t.Fatalf("expected in_transit, got %q", status)
	}
}

// After five consecutive courier API failures the breaker opens and further
// lookups fail fast with ErrOpenState instead of hitting the API.
func TestStatusFailsFastWhenBreakerOpens(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewTrackingClient(srv.URL, "k")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := client.Status(ctx, "jnt", "TN1"); err == nil {
			t.Fatalf("request %d: expected failure", i+1)
		}
	}

	_, err := client.Status(ctx, "jnt", "TN1")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected breaker-open error, got %v", err)
	}
	if hits != 5 {
		t.Fatalf("expected the open breaker to skip the API, saw %d hits", hits)
	}
}
