package geosearch

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/nyc-building-report/internal/domain"
	"github.com/couchcryptid/nyc-building-report/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	calls      int
	candidates []domain.GeocodeCandidate
	err        error
}

func (m *countingGeocoder) Geocode(_ context.Context, _ string) ([]domain.GeocodeCandidate, error) {
	m.calls++
	return m.candidates, m.err
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{candidates: []domain.GeocodeCandidate{{HouseNumber: "350", Street: "5 AVENUE"}}}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	r1, err := cached.Geocode(context.Background(), "350 5th Avenue, NY")
	require.NoError(t, err)
	r2, err := cached.Geocode(context.Background(), "  350 5TH AVENUE, ny ")
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedGeocoder_CallerCannotMutateCache(t *testing.T) {
	inner := &countingGeocoder{candidates: []domain.GeocodeCandidate{{HouseNumber: "350", Street: "5 AVENUE"}}}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	r1, _ := cached.Geocode(context.Background(), "350 5th Avenue")
	r1[0].Street = "changed"
	r2, _ := cached.Geocode(context.Background(), "350 5th Avenue")

	assert.Equal(t, "5 AVENUE", r2[0].Street)
}

func TestCachedGeocoder_EmptyNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.Geocode(context.Background(), "nowhere")
	_, _ = cached.Geocode(context.Background(), "nowhere")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_ErrorNotCached(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("boom")}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Geocode(context.Background(), "350 5th Avenue")
	require.Error(t, err)
	_, err = cached.Geocode(context.Background(), "350 5th Avenue")
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}
