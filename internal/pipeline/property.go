package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/nyc-building-report/internal/domain"
	"github.com/couchcryptid/nyc-building-report/internal/observability"
)

// DefaultTaxLotLimit bounds the tax-lot query.
const DefaultTaxLotLimit = 50

// PropertyResult is the tax-lot record for an address. Found is false when
// the source failed or returned nothing.
type PropertyResult struct {
	Record domain.PropertyTaxRecord
	Found  bool
	Trace  []domain.TraceEntry
}

// PropertyLookup reads year built and unit counts from tax-lot data.
type PropertyLookup struct {
	source  domain.PropertyTaxSource
	limit   int
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPropertyLookup creates a PropertyLookup. A non-positive limit uses DefaultTaxLotLimit.
func NewPropertyLookup(source domain.PropertyTaxSource, limit int, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *PropertyLookup {
	if limit <= 0 {
		limit = DefaultTaxLotLimit
	}
	return &PropertyLookup{
		source:  source,
		limit:   limit,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
}

// Lookup queries by "<house number> <street>" and uses the first row only.
func (p *PropertyLookup) Lookup(ctx context.Context, addr domain.CanonicalAddress, creds domain.Credentials) PropertyResult {
	text := addr.HouseNumber + " " + addr.Street
	rows, err := callWithTimeout(ctx, p.timeout, p.metrics, collabTaxLots,
		func(ctx context.Context) ([]domain.RawTaxLot, error) {
			return p.source.QueryTaxLots(ctx, text, p.limit, creds)
		})
	if err != nil {
		p.logger.Warn("tax-lot lookup failed", "error", err, "address", text)
		return PropertyResult{Trace: []domain.TraceEntry{traceError("taxlots", text, err)}}
	}
	if len(rows) == 0 {
		return PropertyResult{}
	}
	return PropertyResult{Record: domain.TaxRecordFromRaw(rows[0]), Found: true}
}
