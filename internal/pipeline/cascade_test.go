package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/couchcryptid/nyc-building-report/internal/domain"
	"github.com/couchcryptid/nyc-building-report/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fifthAvenue = domain.CanonicalAddress{
	HouseNumber: "350",
	Street:      "5TH AVENUE",
	Borough:     domain.Manhattan,
	Resolution:  domain.ResolvedByParser,
}

func newCascade(src domain.ViolationSource) *pipeline.Cascade {
	return pipeline.NewCascade(src, time.Second, discardLogger(), newTestMetrics())
}

func TestCascade_ExactHit(t *testing.T) {
	src := &fakeViolations{responses: map[domain.FilterKind]violationResponse{
		domain.FilterExact: {rows: violationRows("5TH AVENUE", "B")},
	}}
	creds := domain.Credentials{AppToken: "token-1"}

	got := newCascade(src).Run(context.Background(), fifthAvenue, creds)

	assert.Equal(t, pipeline.StrategyExact, got.Strategy)
	assert.Equal(t, 1, got.Count)
	require.Len(t, src.filters, 1)
	assert.Equal(t, domain.ViolationFilter{Kind: domain.FilterExact, HouseNumber: "350", Street: "5TH AVENUE"}, src.filters[0])
	assert.Equal(t, creds, src.creds[0])
}

func TestCascade_StopsAtFirstNonEmptyStrategy(t *testing.T) {
	src := &fakeViolations{responses: map[domain.FilterKind]violationResponse{
		domain.FilterStreetPrefix: {rows: violationRows("5TH AVENUE", "A", "B", "C")},
		domain.FilterBorough:      {rows: violationRows("5TH AVENUE", "A")},
	}}

	got := newCascade(src).Run(context.Background(), fifthAvenue, domain.Credentials{})

	assert.Len(t, got.Records, 3)
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, pipeline.StrategyStreetPrefix, got.Strategy)
	assert.Equal(t, []domain.FilterKind{domain.FilterExact, domain.FilterStreetPrefix}, src.kinds(),
		"borough strategy must never run once a prior strategy has records")
}

func TestCascade_ErrorCountsAsEmpty(t *testing.T) {
	src := &fakeViolations{responses: map[domain.FilterKind]violationResponse{
		domain.FilterExact:        {err: errors.New("status 503")},
		domain.FilterStreetPrefix: {rows: violationRows("5TH AVENUE", "C")},
	}}

	got := newCascade(src).Run(context.Background(), fifthAvenue, domain.Credentials{})

	assert.Equal(t, pipeline.StrategyStreetPrefix, got.Strategy)
	require.Len(t, got.Trace, 1)
	assert.Equal(t, domain.TraceEntry{Step: "violations", Detail: pipeline.StrategyExact, Error: "status 503"}, got.Trace[0])
}

func TestCascade_BoroughCrossMatch(t *testing.T) {
	rows := []domain.RawViolation{
		{StreetName: "5TH AVE", Class: "A"},
		{StreetName: "5th Avenue East", Class: "B"},
		{StreetName: "BROADWAY", Class: "C"},
		{StreetName: "", Class: "C"},
	}
	src := &fakeViolations{responses: map[domain.FilterKind]violationResponse{
		domain.FilterBorough: {rows: rows},
	}}

	got := newCascade(src).Run(context.Background(), fifthAvenue, domain.Credentials{})

	assert.Equal(t, pipeline.StrategyBoroughCrossMatch, got.Strategy)
	require.Len(t, got.Records, 3)
	assert.Equal(t, "A", got.Records[0].Severity)
	assert.Equal(t, "B", got.Records[1].Severity)
	assert.Equal(t, "C", got.Records[2].Severity, "row without a street is kept")

	require.Len(t, src.filters, 3)
	assert.Equal(t, domain.ViolationFilter{Kind: domain.FilterBorough, HouseNumber: "350", Borough: "MANHATTAN"}, src.filters[2])
}

func TestCascade_BoroughCrossMatchKeepsStreetlessRow(t *testing.T) {
	src := &fakeViolations{responses: map[domain.FilterKind]violationResponse{
		domain.FilterBorough: {rows: []domain.RawViolation{{StreetName: "  ", Class: "A"}}},
	}}

	got := newCascade(src).Run(context.Background(), fifthAvenue, domain.Credentials{})

	assert.Equal(t, pipeline.StrategyBoroughCrossMatch, got.Strategy)
	assert.Equal(t, 1, got.Count)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "A", got.Records[0].Severity)
}

func TestCascade_NothingFound(t *testing.T) {
	src := &fakeViolations{responses: map[domain.FilterKind]violationResponse{
		domain.FilterBorough: {rows: []domain.RawViolation{{StreetName: "BROADWAY"}}},
	}}

	got := newCascade(src).Run(context.Background(), fifthAvenue, domain.Credentials{})

	assert.Empty(t, got.Records)
	assert.Empty(t, got.Strategy)
	assert.Zero(t, got.Count)
	assert.Len(t, src.filters, 3)
}

func TestDefaultStrategiesOrder(t *testing.T) {
	names := make([]string, len(pipeline.DefaultStrategies))
	for i, s := range pipeline.DefaultStrategies {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"exact", "street_prefix", "borough_cross_match"}, names)
}
