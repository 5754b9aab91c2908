package imageurl

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// refreshTimeout bounds the network call of a scheduled re-resolution.
const refreshTimeout = 5 * time.Second

type cacheEntry struct {
	resolved ResolvedURL
	retries  int
	timer    *time.Timer
}

// Cache memoizes resolved URLs per raw reference so repeated renders of the
// same image do not each pay a signing round-trip. Signed entries honor
// their expiry, are reissued by a per-entry hourly timer, and are refreshed
// eagerly when the Coordinator broadcasts.
type Cache struct {
	resolver    *Resolver
	coord       *Coordinator
	mu          sync.Mutex
	entries     map[string]*cacheEntry
	unsubscribe func()
	closed      bool
}

// NewCache creates a Cache wired to the given resolver and coordinator.
func NewCache(resolver *Resolver, coord *Coordinator) *Cache {
	c := &Cache{
		resolver: resolver,
		coord:    coord,
		entries:  make(map[string]*cacheEntry),
	}
	c.unsubscribe = coord.Subscribe(c.refreshAll)
	return c
}

// Resolve returns a renderable URL for raw, from cache when the cached
// entry is still valid.
func (c *Cache) Resolve(ctx context.Context, raw string) (ResolvedURL, error) {
	key := CleanReference(raw)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !e.resolved.Expired(c.resolver.now()) {
		resolved := e.resolved
		c.mu.Unlock()
		return resolved, nil
	}
	c.mu.Unlock()

	resolved, err := c.resolver.Resolve(ctx, raw)
	if err != nil {
		return ResolvedURL{}, err
	}
	c.store(key, resolved)
	return resolved, nil
}

func (c *Cache) store(key string, resolved ResolvedURL) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry{}
		c.entries[key] = e
	}
	e.resolved = resolved

	if resolved.Strategy == StrategySigned {
		c.coord.NoteSignedResolution()
		// One-shot timer per entry; reissue well before the 12h expiry.
		if e.timer != nil {
			e.timer.Stop()
		}
		e.timer = time.AfterFunc(c.coord.interval, func() {
			c.refreshOne(key)
		})
	}
}

// refreshOne re-resolves a single entry. A failed re-resolution leaves the
// stale URL in place; the next hourly cycle or a render-failure fallback
// will pick it up.
func (c *Cache) refreshOne(key string) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || c.closed {
		c.mu.Unlock()
		return
	}
	e.retries++
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	resolved, err := c.resolver.Resolve(ctx, key)
	if err != nil {
		slog.Warn("scheduled image refresh failed", "raw", key, "error", err)
		return
	}
	c.store(key, resolved)
}

// refreshAll is the Coordinator broadcast handler: drop every entry so the
// next render re-resolves with fresh URLs.
func (c *Cache) refreshAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(c.entries, key)
	}
}

// Close stops all pending timers and detaches from the Coordinator.
func (c *Cache) Close() {
	c.mu.Lock()
	c.closed = true
	for _, e := range c.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
	c.unsubscribe()
}
