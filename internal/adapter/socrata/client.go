// Package socrata queries NYC Open Data (Socrata SODA) datasets: HPD housing
// violations and the PLUTO tax-lot table.
package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/nyc-building-report/internal/domain"
)

// Defaults for the NYC Open Data portal.
const (
	DefaultBaseURL        = "https://data.cityofnewyork.us/resource"
	DefaultHPDDataset     = "wvxf-dwi5"
	DefaultPLUTODataset   = "64uk-42ks"
	DefaultViolationLimit = 1000
)

// Options configures a Client. Zero values take the defaults above.
type Options struct {
	BaseURL        string
	AppToken       string
	HPDDataset     string
	PLUTODataset   string
	ViolationLimit int
	Timeout        time.Duration
}

// Client implements domain.ViolationSource and domain.PropertyTaxSource.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	appToken       string
	hpdDataset     string
	plutoDataset   string
	violationLimit int
	logger         *slog.Logger
}

// NewClient creates a Socrata client.
func NewClient(opts Options, logger *slog.Logger) *Client {
	c := &Client{
		httpClient:     &http.Client{Timeout: opts.Timeout},
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		appToken:       opts.AppToken,
		hpdDataset:     opts.HPDDataset,
		plutoDataset:   opts.PLUTODataset,
		violationLimit: opts.ViolationLimit,
		logger:         logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.hpdDataset == "" {
		c.hpdDataset = DefaultHPDDataset
	}
	if c.plutoDataset == "" {
		c.plutoDataset = DefaultPLUTODataset
	}
	if c.violationLimit <= 0 {
		c.violationLimit = DefaultViolationLimit
	}
	return c
}

// QueryViolations fetches HPD violation rows for one filter form.
func (c *Client) QueryViolations(ctx context.Context, filter domain.ViolationFilter, creds domain.Credentials) ([]domain.RawViolation, error) {
	params, err := violationParams(filter)
	if err != nil {
		return nil, err
	}
	params.Set("$limit", strconv.Itoa(c.violationLimit))

	var rows []violationRow
	if err := c.doRequest(ctx, c.hpdDataset, params, creds, &rows); err != nil {
		return nil, fmt.Errorf("query violations (%s): %w", filter.Kind, err)
	}

	out := make([]domain.RawViolation, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// QueryTaxLots fetches PLUTO rows whose address matches the free text.
func (c *Client) QueryTaxLots(ctx context.Context, address string, limit int, creds domain.Credentials) ([]domain.RawTaxLot, error) {
	params := url.Values{
		"address": {address},
		"$limit":  {strconv.Itoa(limit)},
	}

	var rows []taxLotRow
	if err := c.doRequest(ctx, c.plutoDataset, params, creds, &rows); err != nil {
		return nil, fmt.Errorf("query tax lots: %w", err)
	}

	out := make([]domain.RawTaxLot, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

func violationParams(f domain.ViolationFilter) (url.Values, error) {
	switch f.Kind {
	case domain.FilterExact:
		return url.Values{
			"housenumber": {f.HouseNumber},
			"streetname":  {f.Street},
		}, nil
	case domain.FilterStreetPrefix:
		where := fmt.Sprintf("housenumber='%s' AND streetname LIKE '%s%%'", quote(f.HouseNumber), quote(f.Street))
		return url.Values{"$where": {where}}, nil
	case domain.FilterBorough:
		return url.Values{
			"housenumber": {f.HouseNumber},
			"boro":        {f.Borough},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported violation filter %s", f.Kind)
	}
}

// quote escapes a SoQL string literal body.
func quote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func (c *Client) doRequest(ctx context.Context, dataset string, params url.Values, creds domain.Credentials, into any) error {
	u := fmt.Sprintf("%s/%s.json?%s", c.baseURL, dataset, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.token(creds); token != "" {
		req.Header.Set("X-App-Token", token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", dataset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("socrata API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	c.logger.Debug("socrata query", "dataset", dataset, "duration", time.Since(start))
	return nil
}

// token prefers the per-call credential over the configured default.
func (c *Client) token(creds domain.Credentials) string {
	if creds.AppToken != "" {
		return creds.AppToken
	}
	return c.appToken
}
