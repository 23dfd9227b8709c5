package pipeline

import (
	"context"

	"github.com/couchcryptid/nyc-building-report/internal/domain"
)

// ReportSink receives every assembled report.
type ReportSink interface {
	Name() string
	Publish(ctx context.Context, report domain.BuildingReport) error
}
