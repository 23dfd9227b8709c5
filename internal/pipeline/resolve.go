package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/nyc-building-report/internal/domain"
	"github.com/couchcryptid/nyc-building-report/internal/observability"
)

// ResolveResult is a canonical address plus the trace of any geocoder fallback.
type ResolveResult struct {
	Address domain.CanonicalAddress
	Trace   []domain.TraceEntry
}

// Resolver turns normalized address text into a canonical address. The
// geocoder is tried first; the local parser guarantees progress when it is
// unavailable or unhelpful.
type Resolver struct {
	geocoder domain.Geocoder
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewResolver creates a Resolver. Pass a nil geocoder to resolve with the
// parser only.
func NewResolver(geocoder domain.Geocoder, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		timeout:  timeout,
		logger:   logger,
		metrics:  metrics,
	}
}

// Resolve returns the canonical address for normalized text. It fails with
// domain.ErrAddressUnresolvable only when both the geocoder and the parser
// come up without a house number and street.
func (r *Resolver) Resolve(ctx context.Context, normalized string) (ResolveResult, error) {
	var res ResolveResult

	if r.geocoder != nil {
		addr, entry, ok := r.geocode(ctx, normalized)
		if ok {
			r.metrics.Resolutions.WithLabelValues(string(domain.ResolvedByGeocoder)).Inc()
			res.Address = addr
			return res, nil
		}
		res.Trace = append(res.Trace, entry)
	}

	parsed, err := domain.ParseAddress(normalized)
	if err != nil {
		return ResolveResult{}, fmt.Errorf("%w: %w", domain.ErrAddressUnresolvable, err)
	}
	r.metrics.Resolutions.WithLabelValues(string(domain.ResolvedByParser)).Inc()
	res.Address = domain.CanonicalAddress{
		HouseNumber: parsed.HouseNumber,
		Street:      parsed.Street,
		Borough:     domain.ParseBorough(normalized),
		Resolution:  domain.ResolvedByParser,
	}
	return res, nil
}

// geocode returns the first candidate as a canonical address. When the
// geocoder fails or its first candidate is incomplete, ok is false and the
// trace entry says why.
func (r *Resolver) geocode(ctx context.Context, text string) (domain.CanonicalAddress, domain.TraceEntry, bool) {
	candidates, err := callWithTimeout(ctx, r.timeout, r.metrics, collabGeocoder,
		func(ctx context.Context) ([]domain.GeocodeCandidate, error) {
			return r.geocoder.Geocode(ctx, text)
		})
	if err != nil {
		r.logger.Warn("geocoding failed, falling back to parser", "error", err, "address", text)
		return domain.CanonicalAddress{}, traceError("geocode", "falling back to parser", err), false
	}
	if len(candidates) == 0 {
		r.logger.Debug("geocoder returned no candidates", "address", text)
		return domain.CanonicalAddress{}, domain.TraceEntry{Step: "geocode", Detail: "no candidates"}, false
	}

	first := candidates[0]
	if first.HouseNumber == "" || first.Street == "" {
		r.logger.Debug("geocoder candidate incomplete", "address", text, "label", first.Label)
		return domain.CanonicalAddress{}, domain.TraceEntry{Step: "geocode", Detail: "first candidate has no house number or street"}, false
	}

	addr := domain.CanonicalAddress{
		HouseNumber: first.HouseNumber,
		Street:      strings.ToUpper(first.Street),
		Borough:     domain.BoroughFromName(first.Borough),
		Resolution:  domain.ResolvedByGeocoder,
	}
	if first.Lon != 0 || first.Lat != 0 {
		addr.Coordinates = &domain.Coordinates{Lon: first.Lon, Lat: first.Lat}
	}
	return addr, domain.TraceEntry{}, true
}
