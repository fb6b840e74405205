package service

import (
	"sync"
	"time"

	"progdex/internal/core/catalog"
)

// Cache holds the one resolved snapshot behind a freshness window.
// It is an explicit injected object so construction and reset stay in the
// caller's hands; nothing here is package global
type Cache struct {
	mu   sync.Mutex
	ttl  time.Duration
	at   time.Time
	held bool
	snap catalog.Snapshot

	now func() time.Time
}

// DefaultFreshness is the window within which a cached snapshot is reused
const DefaultFreshness = 5 * time.Minute

// NewCache constructs a cache; ttl <= 0 applies DefaultFreshness
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultFreshness
	}
	return &Cache{ttl: ttl, now: time.Now}
}

// Get returns the cached snapshot when it is still fresh
func (c *Cache) Get() (catalog.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.held || c.now().Sub(c.at) > c.ttl {
		return catalog.Snapshot{}, false
	}
	return c.snap, true
}

// Put stores a snapshot and restarts its freshness window
func (c *Cache) Put(s catalog.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = s
	c.at = c.now()
	c.held = true
}

// Reset drops the cached snapshot so the next read resolves fresh
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held = false
	c.snap = catalog.Snapshot{}
}
