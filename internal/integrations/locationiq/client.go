/**
 * @description
 * Client for the LocationIQ reverse-geocoding API.
 * Resolves a latitude/longitude pair into a city name and display address.
 *
 * @dependencies
 * - net/http
 * - encoding/json
 * - backend/internal/config
 */

package locationiq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pasarin-app/backend/internal/config"
	"github.com/pasarin-app/backend/internal/logger"
)

const requestTimeout = 10 * time.Second

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
	} `json:"address"`
}

// Place is the resolved result of a reverse lookup
type Place struct {
	City        string
	DisplayName string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey:  cfg.Services.LocationIQKey,
		baseURL: cfg.Services.LocationIQURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Reverse resolves lat/lon into a Place. City falls back through
// city -> town -> village -> "Unknown", matching what LocationIQ returns
// for rural coordinates.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("locationiq api key is not configured")
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("locationiq request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		logger.Error("LocationIQ API error: %d - %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("locationiq api returned status %d", resp.StatusCode)
	}

	var parsed reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode locationiq response: %w", err)
	}

	city := parsed.Address.City
	if city == "" {
		city = parsed.Address.Town
	}
	if city == "" {
		city = parsed.Address.Village
	}
	if city == "" {
		city = "Unknown"
	}

	displayName := parsed.DisplayName
	if displayName == "" {
		displayName = "Address not found"
	}

	return &Place{City: city, DisplayName: displayName}, nil
}
