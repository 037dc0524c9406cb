package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Place is one venue suggestion from the mapping provider.
type Place struct {
	PlaceID   string  `json:"place_id"`
	Name      string  `json:"name"`
	Formatted string  `json:"formatted"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// geoapify response envelope
type featureCollection struct {
	Features []struct {
		Properties Place `json:"properties"`
	} `json:"features"`
}

// Client is a thin HTTP client for the geocoding provider. Results are passed
// through, never cached.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a places client.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*featureCollection, error) {
	params.Set("apiKey", c.apiKey)
	params.Set("format", "geojson")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("places provider error",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return nil, fmt.Errorf("places provider returned %d", resp.StatusCode)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("places decode: %w", err)
	}
	return &fc, nil
}

// Search returns venue suggestions for a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	params := url.Values{}
	params.Set("text", query)
	fc, err := c.get(ctx, "/v1/geocode/search", params)
	if err != nil {
		return nil, err
	}
	out := make([]Place, 0, len(fc.Features))
	for _, f := range fc.Features {
		out = append(out, f.Properties)
	}
	return out, nil
}

// Details returns one place by provider id.
func (c *Client) Details(ctx context.Context, placeID string) (*Place, error) {
	params := url.Values{}
	params.Set("id", placeID)
	fc, err := c.get(ctx, "/v2/place-details", params)
	if err != nil {
		return nil, err
	}
	if len(fc.Features) == 0 {
		return nil, nil
	}
	p := fc.Features[0].Properties
	return &p, nil
}
