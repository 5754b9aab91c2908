package imageurl

import (
	"sync"
	"time"
)

// RefreshInterval is how often signed URLs are reissued and the minimum
// idle period before a wake triggers a broadcast.
const RefreshInterval = time.Hour

// Coordinator keeps signed URLs usable across long-lived sessions. It is a
// single constructed instance owned by the application root and injected
// into every consumer; subscribers register explicitly and are notified
// when cached URLs should be re-resolved.
//
// It activates lazily on the first signed resolution. Wake is the server
// analog of the page returning to the foreground: request middleware calls
// it, and if more than RefreshInterval has elapsed since the last refresh,
// every subscriber is notified exactly once for that cycle.
type Coordinator struct {
	mu            sync.Mutex
	interval      time.Duration
	lastRefreshed time.Time
	started       bool
	subs          map[int]func()
	nextSubID     int
	now           func() time.Time
}

// NewCoordinator creates a Coordinator with the default refresh interval.
func NewCoordinator() *Coordinator {
	return NewCoordinatorAt(time.Now)
}

// NewCoordinatorAt is NewCoordinator with an injectable clock.
func NewCoordinatorAt(now func() time.Time) *Coordinator {
	return &Coordinator{
		interval: RefreshInterval,
		subs:     make(map[int]func()),
		now:      now,
	}
}

// Subscribe registers fn to be called on each refresh broadcast and returns
// the matching unsubscribe. Consumers unsubscribe when they go away; the
// Coordinator itself outlives any single consumer.
func (c *Coordinator) Subscribe(fn func()) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// NoteSignedResolution activates the coordinator. The first call marks the
// refresh clock; later calls only advance it.
func (c *Coordinator) NoteSignedResolution() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		c.started = true
	}
	c.lastRefreshed = c.now()
}

// Wake checks whether a refresh cycle is due and, if so, broadcasts to all
// subscribers and advances lastRefreshed. The check and the timestamp write
// happen under one lock so two interleaved wakes cannot both observe a
// stale timestamp. Returns true when a broadcast was sent.
func (c *Coordinator) Wake() bool {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return false
	}
	now := c.now()
	if now.Sub(c.lastRefreshed) <= c.interval {
		c.mu.Unlock()
		return false
	}
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.lastRefreshed = now
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return true
}

// LastRefreshed returns the time of the most recent refresh cycle.
func (c *Coordinator) LastRefreshed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRefreshed
}
