package geosearch

import (
	"context"
	"strings"

	"github.com/couchcryptid/nyc-building-report/internal/cache"
	"github.com/couchcryptid/nyc-building-report/internal/domain"
	"github.com/couchcryptid/nyc-building-report/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *cache.LRU[string, []domain.GeocodeCandidate]
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   cache.NewLRU[string, []domain.GeocodeCandidate](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, text string) ([]domain.GeocodeCandidate, error) {
	key := strings.ToLower(strings.TrimSpace(text))
	if cands, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return append([]domain.GeocodeCandidate(nil), cands...), nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	cands, err := c.inner.Geocode(ctx, text)
	if err != nil {
		return nil, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if len(cands) > 0 {
		c.cache.Put(key, append([]domain.GeocodeCandidate(nil), cands...))
	}
	return cands, nil
}
