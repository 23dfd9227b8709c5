package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/nyc-building-report/internal/domain"
	"github.com/couchcryptid/nyc-building-report/internal/observability"
)

// Cascade strategy names, in priority order.
const (
	StrategyExact             = "exact"
	StrategyStreetPrefix      = "street_prefix"
	StrategyBoroughCrossMatch = "borough_cross_match"
)

// Strategy is one violation query attempt. Query fetches candidate rows;
// Filter, when set, narrows them locally.
type Strategy struct {
	Name   string
	Query  func(addr domain.CanonicalAddress) domain.ViolationFilter
	Filter func(addr domain.CanonicalAddress, rows []domain.RawViolation) []domain.RawViolation
}

// DefaultStrategies is the ordered cascade: exact street, street prefix, then
// every row for the house number in the borough cross-matched on street.
var DefaultStrategies = []Strategy{
	{
		Name: StrategyExact,
		Query: func(a domain.CanonicalAddress) domain.ViolationFilter {
			return domain.ViolationFilter{Kind: domain.FilterExact, HouseNumber: a.HouseNumber, Street: a.Street}
		},
	},
	{
		Name: StrategyStreetPrefix,
		Query: func(a domain.CanonicalAddress) domain.ViolationFilter {
			return domain.ViolationFilter{Kind: domain.FilterStreetPrefix, HouseNumber: a.HouseNumber, Street: a.Street}
		},
	},
	{
		Name: StrategyBoroughCrossMatch,
		Query: func(a domain.CanonicalAddress) domain.ViolationFilter {
			return domain.ViolationFilter{Kind: domain.FilterBorough, HouseNumber: a.HouseNumber, Borough: a.Borough.QueryName()}
		},
		Filter: crossMatchStreet,
	},
}

// crossMatchStreet keeps rows whose street contains the search street or is
// contained by it, so "ST" and "STREET" variants still meet. A row with no
// street is contained by every search street and is kept.
func crossMatchStreet(addr domain.CanonicalAddress, rows []domain.RawViolation) []domain.RawViolation {
	search := strings.ToUpper(addr.Street)
	var out []domain.RawViolation
	for _, row := range rows {
		street := strings.ToUpper(strings.TrimSpace(row.StreetName))
		if strings.Contains(street, search) || strings.Contains(search, street) {
			out = append(out, row)
		}
	}
	return out
}

// CascadeResult holds the records of the winning strategy. Strategy and
// Count are diagnostic only.
type CascadeResult struct {
	Records  []domain.ViolationRecord
	Strategy string
	Count    int
	Trace    []domain.TraceEntry
}

// Cascade runs violation strategies in order until one yields records.
type Cascade struct {
	source     domain.ViolationSource
	strategies []Strategy
	timeout    time.Duration
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewCascade creates a Cascade over DefaultStrategies.
func NewCascade(source domain.ViolationSource, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Cascade {
	return &Cascade{
		source:     source,
		strategies: DefaultStrategies,
		timeout:    timeout,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run executes the strategies sequentially. A failed strategy counts as
// empty; the cascade halts at the first strategy with at least one record
// and never merges records across strategies.
func (c *Cascade) Run(ctx context.Context, addr domain.CanonicalAddress, creds domain.Credentials) CascadeResult {
	var trace []domain.TraceEntry
	rows, winner := firstNonEmpty(c.strategies, func(s Strategy) []domain.RawViolation {
		rows, err := c.attempt(ctx, s, addr, creds)
		if err != nil {
			c.logger.Warn("violation strategy failed", "strategy", s.Name, "error", err, "address", addr.SearchedFor())
			trace = append(trace, traceError("violations", s.Name, err))
			return nil
		}
		c.logger.Debug("violation strategy finished", "strategy", s.Name, "records", len(rows))
		return rows
	})

	label := winner
	if label == "" {
		label = "none"
	}
	c.metrics.CascadeWinner.WithLabelValues(label).Inc()

	records := domain.NormalizeViolations(rows)
	return CascadeResult{
		Records:  records,
		Strategy: winner,
		Count:    len(records),
		Trace:    trace,
	}
}

func (c *Cascade) attempt(ctx context.Context, s Strategy, addr domain.CanonicalAddress, creds domain.Credentials) ([]domain.RawViolation, error) {
	rows, err := callWithTimeout(ctx, c.timeout, c.metrics, collabViolations,
		func(ctx context.Context) ([]domain.RawViolation, error) {
			return c.source.QueryViolations(ctx, s.Query(addr), creds)
		})
	if err != nil {
		return nil, err
	}
	if s.Filter != nil {
		rows = s.Filter(addr, rows)
	}
	return rows, nil
}

// firstNonEmpty runs each strategy in order and returns the first non-empty
// result with the name of the strategy that produced it.
func firstNonEmpty[T any](strategies []Strategy, run func(Strategy) []T) ([]T, string) {
	for _, s := range strategies {
		if out := run(s); len(out) > 0 {
			return out, s.Name
		}
	}
	return nil, ""
}
