// Package catalog provides a read-through cache over the activity
// definition store. The cache is an injected object owned by the
// server, not a package-level singleton; catalog writers call
// Invalidate so the next read refetches.
package catalog

import (
	"fmt"
	"sync"
	"time"

	"github.com/mhollis/homepoints/internal/model"
)

// Source is the store seam the cache reads through.
type Source interface {
	ListActive() ([]model.ActivityDefinition, error)
}

type Cache struct {
	src Source
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	defs    []model.ActivityDefinition
	fetched time.Time
}

// NewCache wraps src with a TTL cache. A non-positive ttl disables
// caching entirely (every read hits the store).
func NewCache(src Source, ttl time.Duration) *Cache {
	return &Cache{src: src, ttl: ttl, now: time.Now}
}

// Definitions returns the active catalog, refetching when the cached
// copy is older than the TTL. A fetch error with a warm cache serves
// the stale copy rather than failing the caller.
func (c *Cache) Definitions() ([]model.ActivityDefinition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.defs != nil && c.ttl > 0 && c.now().Sub(c.fetched) < c.ttl {
		return c.defs, nil
	}

	defs, err := c.src.ListActive()
	if err != nil {
		if c.defs != nil {
			return c.defs, nil
		}
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	c.defs = defs
	c.fetched = c.now()
	return defs, nil
}

// Invalidate drops the cached copy. Catalog admin handlers call this
// after any write.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.defs = nil
	c.mu.Unlock()
}
