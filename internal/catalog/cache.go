package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/ayebare/dukapos/pkg/config"
	pkgerrors "github.com/ayebare/dukapos/pkg/errors"
	"github.com/ayebare/dukapos/pkg/logger"
	"github.com/ayebare/dukapos/pkg/metrics"
)

const defaultCacheTTL = 5 * time.Minute

const (
	lookupKindList   = "list"
	lookupKindDetail = "detail"
)

// ProductSource is the remote the cache reads through to. *Client satisfies it.
type ProductSource interface {
	ListProducts(ctx context.Context, params ListParams) ([]Product, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
}

type listEntry struct {
	products []Product
	storedAt time.Time
}

type detailEntry struct {
	product  Product
	storedAt time.Time
}

// Cache is a read-through, TTL-based product cache. Entries are never evicted,
// only superseded by a newer fetch for the same key, and stale entries remain
// usable as a fallback when the remote is unreachable.
type Cache struct {
	source  ProductSource
	ttl     time.Duration
	now     func() time.Time
	logg    *logger.Logger
	metrics *metrics.CatalogCacheMetrics

	mu      sync.Mutex
	lists   map[string]listEntry
	details map[int]detailEntry
}

// NewCache builds the product cache in front of the given source.
func NewCache(source ProductSource, cfg config.CacheConfig, logg *logger.Logger, cacheMetrics *metrics.CatalogCacheMetrics) *Cache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		logg:    logg,
		metrics: cacheMetrics,
		lists:   map[string]listEntry{},
		details: map[int]detailEntry{},
	}
}

// ListProducts returns the products for the given filters, serving a fresh
// cache entry when one exists. On remote failure it falls back to a stale
// entry for the same key; with nothing cached it returns an empty slice and
// no error so the caller can still render.
func (c *Cache) ListProducts(ctx context.Context, params ListParams) ([]Product, error) {
	key := params.CacheKey()

	c.mu.Lock()
	if entry, ok := c.lists[key]; ok && c.fresh(entry.storedAt) {
		products := cloneProducts(entry.products)
		c.mu.Unlock()
		c.metrics.IncHit(lookupKindList)
		return products, nil
	}
	c.mu.Unlock()

	products, err := c.source.ListProducts(ctx, params)
	if err == nil {
		c.mu.Lock()
		c.lists[key] = listEntry{products: cloneProducts(products), storedAt: c.now()}
		c.mu.Unlock()
		c.metrics.IncMiss(lookupKindList)
		return products, nil
	}

	ctx = c.logg.WithCacheKey(ctx, key)

	c.mu.Lock()
	entry, ok := c.lists[key]
	var stale []Product
	if ok {
		stale = cloneProducts(entry.products)
	}
	c.mu.Unlock()

	if ok {
		c.metrics.IncStaleServe(lookupKindList)
		c.logg.Warn(ctx, "catalog.list.stale_serve")
		return stale, nil
	}

	c.logg.Error(ctx, "catalog.list.failed", err)
	return []Product{}, nil
}

// GetProduct returns a single product. A cached list row with the same ID and
// a populated description is promoted into the detail cache so the remote is
// not hit for data the list already carried. A stale detail entry is served
// when the remote fails; only when nothing cached remains does the lookup
// report not found.
func (c *Cache) GetProduct(ctx context.Context, id int) (*Product, error) {
	c.mu.Lock()
	if entry, ok := c.details[id]; ok && c.fresh(entry.storedAt) {
		product := entry.product
		c.mu.Unlock()
		c.metrics.IncHit(lookupKindDetail)
		return &product, nil
	}

	if promoted, ok := c.promoteLocked(id); ok {
		c.mu.Unlock()
		c.metrics.IncPromotion()
		return promoted, nil
	}
	c.mu.Unlock()

	product, err := c.source.GetProduct(ctx, id)
	if err == nil && product != nil {
		c.mu.Lock()
		c.details[id] = detailEntry{product: *product, storedAt: c.now()}
		c.mu.Unlock()
		c.metrics.IncMiss(lookupKindDetail)
		copied := *product
		return &copied, nil
	}

	ctx = c.logg.WithProductID(ctx, id)

	c.mu.Lock()
	entry, ok := c.details[id]
	c.mu.Unlock()
	if ok {
		c.metrics.IncStaleServe(lookupKindDetail)
		c.logg.Warn(ctx, "catalog.detail.stale_serve")
		stale := entry.product
		return &stale, nil
	}

	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return nil, err
	}
	if err != nil {
		c.logg.Error(ctx, "catalog.detail.failed", err)
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
}

// promoteLocked scans every held list entry, regardless of age, for a row
// with the wanted ID. Only rows carrying a description qualify; list payloads
// without one would leave the detail view half-empty.
func (c *Cache) promoteLocked(id int) (*Product, bool) {
	for _, entry := range c.lists {
		for _, product := range entry.products {
			if product.ID != id || product.Description == "" {
				continue
			}
			promoted := product
			c.details[id] = detailEntry{product: promoted, storedAt: c.now()}
			result := promoted
			return &result, true
		}
	}
	return nil, false
}

// Prefetch warms the list cache in the background. Failures are already
// absorbed and logged by ListProducts, so the caller never observes them.
func (c *Cache) Prefetch(ctx context.Context, params ListParams) {
	detached := context.WithoutCancel(ctx)
	go func() {
		_, _ = c.ListProducts(detached, params)
	}()
}

func (c *Cache) fresh(storedAt time.Time) bool {
	return c.now().Sub(storedAt) < c.ttl
}

func cloneProducts(products []Product) []Product {
	if products == nil {
		return nil
	}
	out := make([]Product, len(products))
	copy(out, products)
	return out
}
