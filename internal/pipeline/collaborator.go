package pipeline

import (
	"context"
	"time"

	"github.com/couchcryptid/nyc-building-report/internal/domain"
	"github.com/couchcryptid/nyc-building-report/internal/observability"
)

// Collaborator names used in metric labels and trace entries.
const (
	collabGeocoder   = "geocoder"
	collabViolations = "violations"
	collabTaxLots    = "taxlots"
)

// callWithTimeout runs fn under its own deadline and records the outcome.
// n is the number of results fn returned; it only drives the outcome label.
func callWithTimeout[T any](
	ctx context.Context,
	timeout time.Duration,
	metrics *observability.Metrics,
	collaborator string,
	fn func(context.Context) ([]T, error),
) ([]T, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	out, err := fn(ctx)
	metrics.CollaboratorDuration.WithLabelValues(collaborator).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.CollaboratorRequests.WithLabelValues(collaborator, "error").Inc()
	case len(out) == 0:
		metrics.CollaboratorRequests.WithLabelValues(collaborator, "empty").Inc()
	default:
		metrics.CollaboratorRequests.WithLabelValues(collaborator, "success").Inc()
	}
	return out, err
}

// traceError builds a trace entry for a failed collaborator call.
func traceError(step, detail string, err error) domain.TraceEntry {
	return domain.TraceEntry{Step: step, Detail: detail, Error: err.Error()}
}

// withTimeout applies d when positive and is a no-op otherwise.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
