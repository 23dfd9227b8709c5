package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/nyc-building-report/internal/domain"
	"github.com/couchcryptid/nyc-building-report/internal/observability"
	"golang.org/x/sync/errgroup"
)

// SearchRequest is one address search.
type SearchRequest struct {
	Address     string
	Credentials domain.Credentials
}

// Searcher runs the full address-to-report pipeline.
type Searcher struct {
	resolver *Resolver
	cascade  *Cascade
	property *PropertyLookup
	registry atomic.Pointer[domain.Registry]
	sinks    []ReportSink
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewSearcher wires the pipeline stages. Sink publish calls are bounded by
// sinkTimeout.
func NewSearcher(
	resolver *Resolver,
	cascade *Cascade,
	property *PropertyLookup,
	sinkTimeout time.Duration,
	logger *slog.Logger,
	metrics *observability.Metrics,
	sinks ...ReportSink,
) *Searcher {
	return &Searcher{
		resolver: resolver,
		cascade:  cascade,
		property: property,
		sinks:    sinks,
		timeout:  sinkTimeout,
		logger:   logger,
		metrics:  metrics,
	}
}

// SetRegistry installs the rent-stabilization registry. It is called once
// after the registry has loaded; until then searches see an empty registry.
func (s *Searcher) SetRegistry(r *domain.Registry) {
	s.registry.Store(r)
	s.metrics.RegistryEntries.Set(float64(r.Len()))
}

// Registry returns the installed registry, or nil before SetRegistry.
func (s *Searcher) Registry() *domain.Registry {
	return s.registry.Load()
}

// CheckReadiness returns nil once the registry has been installed.
func (s *Searcher) CheckReadiness(_ context.Context) error {
	if s.registry.Load() == nil {
		return errors.New("rent-stabilization registry not loaded yet")
	}
	return nil
}

// Search resolves the address and assembles a report. The only error is
// domain.ErrAddressUnresolvable; every collaborator failure degrades to an
// empty result recorded in the report's diagnostics.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) (domain.BuildingReport, error) {
	start := time.Now()

	normalized := domain.NormalizeAddress(req.Address)
	resolved, err := s.resolver.Resolve(ctx, normalized)
	if err != nil {
		s.metrics.Searches.WithLabelValues("unresolvable").Inc()
		s.logger.Info("address unresolvable", "input", req.Address, "normalized", normalized)
		return domain.BuildingReport{}, fmt.Errorf("resolve %q: %w", req.Address, err)
	}
	addr := resolved.Address

	var (
		violations CascadeResult
		property   PropertyResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		violations = s.cascade.Run(gctx, addr, req.Credentials)
		return nil
	})
	g.Go(func() error {
		property = s.property.Lookup(gctx, addr, req.Credentials)
		return nil
	})
	_ = g.Wait() // stages report failures through their traces, never as errors

	inRegistry := s.registry.Load().Contains(addr.HouseNumber, addr.Street)
	status := domain.ClassifyStabilization(inRegistry, property.Record, property.Found)
	counts := domain.CountViolations(violations.Records)

	trace := make([]domain.TraceEntry, 0, len(resolved.Trace)+len(violations.Trace)+len(property.Trace))
	trace = append(trace, resolved.Trace...)
	trace = append(trace, violations.Trace...)
	trace = append(trace, property.Trace...)

	report := domain.AssembleReport(domain.ReportInput{
		Address:       addr,
		Score:         domain.ScoreViolations(violations.Records),
		Counts:        counts,
		TotalRecords:  len(violations.Records),
		Issues:        domain.ExtractIssues(violations.Records),
		Rent:          domain.EstimateRent(addr.Borough, property.Record.TotalUnits, property.Record.YearBuilt),
		Tax:           property.Record,
		Stabilization: status,
		Diagnostics: domain.Diagnostics{
			SearchedFor:    addr.SearchedFor(),
			Sources:        fmt.Sprintf("%s: %d", domain.SourceHPD, counts.Total),
			Strategy:       violations.Strategy,
			ViolationCount: violations.Count,
			Trace:          trace,
		},
	})

	s.publish(ctx, report)

	s.metrics.Searches.WithLabelValues("success").Inc()
	s.metrics.SearchDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("report assembled",
		"address", report.Address,
		"resolution", addr.Resolution,
		"strategy", violations.Strategy,
		"violations", counts.Total,
		"grade", report.HealthScore,
		"stabilized", status.IsStabilized,
	)
	return report, nil
}

// publish hands the report to every sink. Sink failures are logged and
// counted but never fail the search.
func (s *Searcher) publish(ctx context.Context, report domain.BuildingReport) {
	for _, sink := range s.sinks {
		pctx, cancel := withTimeout(ctx, s.timeout)
		err := sink.Publish(pctx, report)
		cancel()

		if err != nil {
			s.metrics.SinkPublishes.WithLabelValues(sink.Name(), "error").Inc()
			s.logger.Warn("report publish failed", "sink", sink.Name(), "error", err, "address", report.Address)
			continue
		}
		s.metrics.SinkPublishes.WithLabelValues(sink.Name(), "success").Inc()
	}
}
