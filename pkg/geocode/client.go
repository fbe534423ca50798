package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mwantia/gostash/internal/config"
	"github.com/mwantia/gostash/pkg/geo"
)

// Address is the structured result of a reverse-geocoding lookup. Any
// field may be blank depending on what the service knows about the area.
type Address struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	Country string `json:"country"`
}

// PlaceNames returns the non-blank place names of the address, in
// city, town, village, country order.
func (a *Address) PlaceNames() []string {
	names := make([]string, 0, 4)
	for _, name := range []string{a.City, a.Town, a.Village, a.Country} {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

type reverseResponse struct {
	Address Address `json:"address"`
}

// Client performs reverse-geocoding lookups against a nominatim-style
// HTTP endpoint.
type Client struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

func NewClient(cfg config.GeocodeConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("geocode endpoint is required")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("geocode user agent is required")
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		endpoint:  cfg.Endpoint,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

// Reverse resolves a coordinate pair into a structured address.
func (c *Client) Reverse(ctx context.Context, location geo.Location) (*Address, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(location.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(location.Longitude, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build reverse geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse geocode request returned status %d", resp.StatusCode)
	}

	var parsed reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode reverse geocode response: %w", err)
	}

	return &parsed.Address, nil
}
