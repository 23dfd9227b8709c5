package geosearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/nyc-building-report/internal/domain"
)

// DefaultBaseURL is the NYC Planning Labs GeoSearch API.
const DefaultBaseURL = "https://geosearch.planninglabs.nyc/v2"

// Client implements domain.Geocoder using the NYC GeoSearch API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a GeoSearch client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// Geocode returns candidates for free text in the provider's rank order.
func (c *Client) Geocode(ctx context.Context, text string) ([]domain.GeocodeCandidate, error) {
	u := c.baseURL + "/search?" + url.Values{"text": {text}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geosearch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("geosearch API error: status %d: %s", resp.StatusCode, body)
	}

	var gsResp response
	if err := json.NewDecoder(resp.Body).Decode(&gsResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	candidates := make([]domain.GeocodeCandidate, 0, len(gsResp.Features))
	for _, f := range gsResp.Features {
		cand := domain.GeocodeCandidate{
			HouseNumber: f.Properties.HouseNumber,
			Street:      f.Properties.Street,
			Borough:     f.Properties.Borough,
			Label:       f.Properties.Label,
		}
		if len(f.Geometry.Coordinates) == 2 {
			cand.Lon = f.Geometry.Coordinates[0]
			cand.Lat = f.Geometry.Coordinates[1]
		}
		candidates = append(candidates, cand)
	}
	c.logger.Debug("geosearch candidates", "text", text, "count", len(candidates))
	return candidates, nil
}

// GeoSearch API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Geometry   geometry   `json:"geometry"`
	Properties properties `json:"properties"`
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}

type properties struct {
	HouseNumber string `json:"housenumber"`
	Street      string `json:"street"`
	Borough     string `json:"borough"`
	Label       string `json:"label"`
}
