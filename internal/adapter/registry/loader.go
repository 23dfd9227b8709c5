// Package registry loads the verified rent-stabilization registry from CSV.
package registry

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/couchcryptid/nyc-building-report/internal/domain"
)

// DefaultSource is the community-maintained registry sheet, exported as CSV.
const DefaultSource = "https://docs.google.com/spreadsheets/d/1_yUjWl9Z1z6T_8oRqXscOU6KFV25ECYgVO69lORFyxI/export?format=csv&gid=0"

// Load reads the registry from a file path or an http(s) URL.
func Load(ctx context.Context, client *http.Client, source string) (*domain.Registry, error) {
	rc, err := open(ctx, client, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	entries, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", source, err)
	}
	return domain.NewRegistry(entries), nil
}

// Parse reads number,street,borough[,zip] rows after a header line. Rows
// with fewer than three columns or without a number or street are skipped.
func Parse(r io.Reader) ([]domain.RegistryEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var entries []domain.RegistryEntry
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) < 3 {
			continue
		}
		e := domain.RegistryEntry{
			Number:  strings.TrimSpace(rec[0]),
			Street:  strings.TrimSpace(rec[1]),
			Borough: strings.TrimSpace(rec[2]),
		}
		if len(rec) > 3 {
			e.Zip = strings.TrimSpace(rec[3])
		}
		if e.Number == "" || e.Street == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func open(ctx context.Context, client *http.Client, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open registry: %w", err)
		}
		return f, nil
	}

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch registry: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch registry: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
