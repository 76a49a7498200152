package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CatalogCacheMetrics records cache effectiveness for catalog lookups.
type CatalogCacheMetrics struct {
	hits       *prometheus.CounterVec
	misses     *prometheus.CounterVec
	staleServe *prometheus.CounterVec
	promotions prometheus.Counter
}

// NewCatalogCacheMetrics registers the cache metrics on the provided registerer.
func NewCatalogCacheMetrics(reg prometheus.Registerer) *CatalogCacheMetrics {
	if reg == nil {
		return &CatalogCacheMetrics{}
	}
	hits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Catalog lookups served from a fresh cache entry.",
	}, []string{"kind"})
	misses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Catalog lookups that required a remote call.",
	}, []string{"kind"})
	staleServe := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_stale_serves_total",
		Help: "Catalog lookups served from a stale entry after a remote failure.",
	}, []string{"kind"})
	promotions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_promotions_total",
		Help: "Detail lookups satisfied by promoting a cached list row.",
	})
	reg.MustRegister(hits, misses, staleServe, promotions)
	return &CatalogCacheMetrics{
		hits:       hits,
		misses:     misses,
		staleServe: staleServe,
		promotions: promotions,
	}
}

// IncHit increments the fresh-hit counter for the lookup kind.
func (c *CatalogCacheMetrics) IncHit(kind string) {
	if c == nil || c.hits == nil {
		return
	}
	c.hits.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncMiss increments the miss counter for the lookup kind.
func (c *CatalogCacheMetrics) IncMiss(kind string) {
	if c == nil || c.misses == nil {
		return
	}
	c.misses.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncStaleServe increments the stale-serve counter for the lookup kind.
func (c *CatalogCacheMetrics) IncStaleServe(kind string) {
	if c == nil || c.staleServe == nil {
		return
	}
	c.staleServe.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncPromotion increments the list-to-detail promotion counter.
func (c *CatalogCacheMetrics) IncPromotion() {
	if c == nil || c.promotions == nil {
		return
	}
	c.promotions.Inc()
}

func normalizeLabel(kind string) string {
	if kind == "" {
		return "unknown"
	}
	return kind
}
