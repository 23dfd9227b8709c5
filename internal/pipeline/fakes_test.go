package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/couchcryptid/nyc-building-report/internal/domain"
	"github.com/couchcryptid/nyc-building-report/internal/observability"
)

// --- mocks ---

type fakeGeocoder struct {
	candidates []domain.GeocodeCandidate
	err        error
	block      bool

	mu    sync.Mutex
	calls []string
}

func (f *fakeGeocoder) Geocode(ctx context.Context, text string) ([]domain.GeocodeCandidate, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.candidates, f.err
}

type violationResponse struct {
	rows []domain.RawViolation
	err  error
}

type fakeViolations struct {
	responses map[domain.FilterKind]violationResponse

	mu      sync.Mutex
	filters []domain.ViolationFilter
	creds   []domain.Credentials
}

func (f *fakeViolations) QueryViolations(_ context.Context, filter domain.ViolationFilter, creds domain.Credentials) ([]domain.RawViolation, error) {
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.creds = append(f.creds, creds)
	f.mu.Unlock()
	r := f.responses[filter.Kind]
	return r.rows, r.err
}

func (f *fakeViolations) kinds() []domain.FilterKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.FilterKind, len(f.filters))
	for i, fl := range f.filters {
		out[i] = fl.Kind
	}
	return out
}

type fakeTaxLots struct {
	rows []domain.RawTaxLot
	err  error

	mu     sync.Mutex
	texts  []string
	limits []int
}

func (f *fakeTaxLots) QueryTaxLots(_ context.Context, address string, limit int, _ domain.Credentials) ([]domain.RawTaxLot, error) {
	f.mu.Lock()
	f.texts = append(f.texts, address)
	f.limits = append(f.limits, limit)
	f.mu.Unlock()
	return f.rows, f.err
}

type recordingSink struct {
	name string
	err  error

	mu      sync.Mutex
	reports []domain.BuildingReport
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Publish(_ context.Context, report domain.BuildingReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return s.err
}

// --- helpers ---

func newTestMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func violationRows(street string, classes ...string) []domain.RawViolation {
	rows := make([]domain.RawViolation, len(classes))
	for i, c := range classes {
		rows[i] = domain.RawViolation{
			HouseNumber:    "350",
			StreetName:     street,
			Class:          c,
			NOVDescription: "Repair the broken plaster",
		}
	}
	return rows
}
