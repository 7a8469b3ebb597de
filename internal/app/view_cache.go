package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/example/paydesk/internal/ports/secondary"
)

// ViewCache memoizes read models fetched from the backend.
// Concurrent misses for the same entry share one backend call.
type ViewCache struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu       sync.Mutex
	entries  map[string]cacheEntry
	gen      map[secondary.View]uint64
	inflight map[string]int // running fetches per key
}

type cacheEntry struct {
	value     any
	fetchedAt time.Time
}

// NewViewCache creates a cache whose entries expire after ttl. Zero ttl never expires.
func NewViewCache(ttl time.Duration) *ViewCache {
	return &ViewCache{
		ttl:     ttl,
		now:     time.Now,
		entries:  make(map[string]cacheEntry),
		gen:      make(map[secondary.View]uint64),
		inflight: make(map[string]int),
	}
}

// Invalidate drops the cached view for key; an empty key drops every entry of the view.
// Readers arriving afterwards never join a fetch that started before the call.
func (c *ViewCache) Invalidate(ctx context.Context, view secondary.View, key string) {
	prefix := cachePrefix(view, key)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen[view]++
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	for k := range c.inflight {
		if strings.HasPrefix(k, prefix) {
			c.group.Forget(k)
		}
	}
}

func cachePrefix(view secondary.View, key string) string {
	if key == "" {
		return string(view) + "|"
	}
	return string(view) + "|" + key + "|"
}

// cached returns the entry for view/key/variant, calling fetch on a miss.
// A result fetched across an invalidation of its view is returned but not stored.
func cached[T any](ctx context.Context, c *ViewCache, view secondary.View, key, variant string, fetch func(context.Context) (T, error)) (T, error) {
	k := cachePrefix(view, key) + variant

	c.mu.Lock()
	if e, ok := c.entries[k]; ok && (c.ttl == 0 || c.now().Sub(e.fetchedAt) < c.ttl) {
		c.mu.Unlock()
		return e.value.(T), nil
	}
	gen := c.gen[view]
	c.mu.Unlock()

	v, err, _ := c.group.Do(k, func() (any, error) {
		c.mu.Lock()
		c.inflight[k]++
		c.mu.Unlock()

		val, err := fetch(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.inflight[k]--
		if c.inflight[k] == 0 {
			delete(c.inflight, k)
		}
		if err != nil {
			return nil, err
		}
		if c.gen[view] == gen {
			c.entries[k] = cacheEntry{value: val, fetchedAt: c.now()}
		}
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Ensure ViewCache implements the interface
var _ secondary.ViewInvalidator = (*ViewCache)(nil)
