package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// TrackingClient queries the courier aggregator API for shipment statuses.
// Calls go through a circuit breaker so a flapping courier API cannot tie up
// the background refresh job.
type TrackingClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewTrackingClient(baseURL, apiKey string) *TrackingClient {
	return &TrackingClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "courier-tracking",
			MaxRequests: 3,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

type trackingResponse struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

// Status fetches the current tracking status for one shipment. Returns the
// breaker's ErrOpenState while the courier API is considered down.
func (tc *TrackingClient) Status(ctx context.Context, courier, trackingNo string) (string, error) {
	result, err := tc.breaker.Execute(func() (interface{}, error) {
		endpoint := fmt.Sprintf("%s/track?courier=%s&tracking_no=%s",
			tc.baseURL, url.QueryEscape(courier), url.QueryEscape(trackingNo))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-API-KEY", tc.apiKey)

		resp, err := tc.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("courier API returned %d", resp.StatusCode)
		}

		var tr trackingResponse
		if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
			return nil, err
		}
		return tr.Status, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}
