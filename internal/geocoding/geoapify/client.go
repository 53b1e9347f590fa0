// Package geoapify provides a client for the Geoapify geocoding API.
package geoapify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/wandermate/wandermate/internal/geocoding"
	"github.com/wandermate/wandermate/internal/upstream"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "geoapify"

	// DefaultBaseURL is the Geoapify API base URL.
	DefaultBaseURL = "https://api.geoapify.com"

	// DefaultRequestsPerSecond keeps the client inside the shared API quota.
	DefaultRequestsPerSecond = 1

	// resultLimit caps the number of autocomplete results requested.
	resultLimit = 5
)

// ClientConfig holds configuration for the Geoapify client.
type ClientConfig struct {
	// APIKey is the Geoapify API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the Geoapify API).
	BaseURL string

	// CountryCode biases and filters results to one country (optional,
	// e.g. "in"). Empty means worldwide.
	CountryCode string

	// Limiter throttles outgoing requests to stay inside the API quota.
	// If nil, a token bucket at DefaultRequestsPerSecond is used.
	Limiter *rate.Limiter

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *upstream.Client
}

// Client is a Geoapify geocoding client.
type Client struct {
	apiKey      string
	baseURL     string
	countryCode string
	httpClient  *upstream.Client
}

// NewClient creates a new Geoapify client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		limiter := cfg.Limiter
		if limiter == nil {
			limiter = rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), DefaultRequestsPerSecond)
		}
		httpClient = upstream.NewClient(upstream.ClientConfig{
			Name:            ProviderName,
			Timeout:         10 * time.Second,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Limiter:         limiter,
		})
	}

	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		countryCode: cfg.CountryCode,
		httpClient:  httpClient,
	}
}

// API response types (from the Geoapify geocoding API).

type autocompleteResponse struct {
	Features []featureData `json:"features"`
}

type featureData struct {
	Properties propertiesData `json:"properties"`
}

type propertiesData struct {
	Formatted string  `json:"formatted"`
	City      string  `json:"city"`
	Town      string  `json:"town"`
	Village   string  `json:"village"`
	State     string  `json:"state"`
	County    string  `json:"county"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// Search looks up city-level places matching the query.
func (c *Client) Search(ctx context.Context, query string) ([]geocoding.Place, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("geoapify: API key not configured")
	}

	params := url.Values{}
	params.Set("text", query)
	params.Set("apiKey", c.apiKey)
	params.Set("type", "city")
	params.Set("limit", fmt.Sprintf("%d", resultLimit))
	params.Set("lang", "en")
	if c.countryCode != "" {
		params.Set("filter", "countrycode:"+c.countryCode)
		params.Set("bias", "countrycode:"+c.countryCode)
	}

	endpoint := fmt.Sprintf("%s/v1/geocode/autocomplete?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("geoapify: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geoapify: search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geoapify: unexpected status %d", resp.StatusCode)
	}

	var payload autocompleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("geoapify: decode response: %w", err)
	}

	places := make([]geocoding.Place, 0, len(payload.Features))
	for _, f := range payload.Features {
		p := f.Properties
		city := p.City
		if city == "" {
			city = p.Town
		}
		if city == "" {
			city = p.Village
		}
		state := p.State
		if state == "" {
			state = p.County
		}
		places = append(places, geocoding.Place{
			Name:    p.Formatted,
			City:    city,
			State:   state,
			Country: p.Country,
			Lat:     p.Lat,
			Lon:     p.Lon,
		})
	}
	return places, nil
}

// Healthy reports whether the upstream circuit is closed.
func (c *Client) Healthy() bool {
	return c.httpClient.Healthy()
}
