package locationiq

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pasarin-app/backend/internal/config"
)

func testClient(serverURL string) *Client {
	cfg := &config.Config{}
	cfg.Services.LocationIQKey = "test-key"
	cfg.Services.LocationIQURL = serverURL
	return NewClient(cfg)
}

func TestReverseResolvesCity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("unexpected api key: %q", got)
		}
		if got := r.URL.Query().Get("lat"); got != "-6.2" {
			t.Errorf("unexpected lat: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"display_name": "Jalan Sudirman, Jakarta, Indonesia",
			"address": {"city": "Jakarta"}
		}`))
	}))
	defer srv.Close()

	place, err := testClient(srv.URL).Reverse(context.Background(), -6.2, 106.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place.City != "Jakarta" {
		t.Errorf("expected city Jakarta, got %q", place.City)
	}
	if place.DisplayName != "Jalan Sudirman, Jakarta, Indonesia" {
		t.Errorf("unexpected display name: %q", place.DisplayName)
	}
}

func TestReverseFallsBackThroughTownAndVillage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"town", `{"display_name": "x", "address": {"town": "Pangandaran"}}`, "Pangandaran"},
		{"village", `{"display_name": "x", "address": {"village": "Batukaras"}}`, "Batukaras"},
		{"nothing", `{"display_name": "x", "address": {}}`, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			place, err := testClient(srv.URL).Reverse(context.Background(), 0, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if place.City != tt.want {
				t.Errorf("expected city %q, got %q", tt.want, place.City)
			}
		})
	}
}

func TestReverseUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "Invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Reverse(context.Background(), 0, 0); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}

func TestReverseMissingKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.Services.LocationIQURL = "http://localhost"
	if _, err := NewClient(cfg).Reverse(context.Background(), 0, 0); err == nil {
		t.Fatal("expected error when api key is missing")
	}
}
