package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pasarin-app/backend/internal/config"
)

func setupRouterApp(t *testing.T) *fiber.App {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "route-test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Uploads.Dir = t.TempDir()

	app := fiber.New()
	SetupRoutes(app, nil, redisClient, cfg)
	return app
}

// Every bid query route must be mounted and auth-gated: an unauthenticated
// request gets 401 from the middleware, never a 404.
func TestBidQueryRoutesAreMounted(t *testing.T) {
	app := setupRouterApp(t)

	paths := []string{
		"/api/bids",
		"/api/auctions/7bb4b3a7-3f4a-4a8f-9c2d-1f2e3d4c5b6a/bids",
		"/api/auctions/7bb4b3a7-3f4a-4a8f-9c2d-1f2e3d4c5b6a/bids/me",
		"/api/auctions/7bb4b3a7-3f4a-4a8f-9c2d-1f2e3d4c5b6a/bids/history",
		"/api/auctions/7bb4b3a7-3f4a-4a8f-9c2d-1f2e3d4c5b6a/highest_bid",
	}

	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: request failed: %v", path, err)
		}
		if resp.StatusCode == http.StatusNotFound {
			t.Errorf("%s: route is not mounted (404)", path)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 without a token, got %d", path, resp.StatusCode)
		}
	}
}

func TestHealthRouteIsPublic(t *testing.T) {
	app := setupRouterApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
