package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
)

// DefaultMaxEntries bounds the in-memory cache
const DefaultMaxEntries = 10000

type entry struct {
	value     commodity.CachedPrice
	expiresAt time.Time
}

// MemoryPredictionCache implements commodity.PredictionCache with a map.
// It is suitable for single-instance deployments and testing.
type MemoryPredictionCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	stopChan   chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// MemoryOption configures a MemoryPredictionCache
type MemoryOption func(*MemoryPredictionCache)

// WithMaxEntries caps the number of live entries
func WithMaxEntries(n int) MemoryOption {
	return func(c *MemoryPredictionCache) { c.maxEntries = n }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryPredictionCache) { c.now = now }
}

// NewMemoryPredictionCache creates an in-memory cache whose entries live for
// ttl. A background goroutine removes expired entries until Close.
func NewMemoryPredictionCache(ttl time.Duration, opts ...MemoryOption) *MemoryPredictionCache {
	c := &MemoryPredictionCache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		stopChan:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.wg.Add(1)
	go c.cleanupLoop()
	return c
}

// Get returns the cached price for key
func (c *MemoryPredictionCache) Get(_ context.Context, key string) (commodity.CachedPrice, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return commodity.CachedPrice{}, false, nil
	}
	return e.value, true, nil
}

// Set stores value under key. When the cache is full, expired entries are
// dropped first and then an arbitrary entry is evicted.
func (c *MemoryPredictionCache) Set(_ context.Context, key string, value commodity.CachedPrice) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.removeExpired(now)
		for k := range c.entries {
			if len(c.entries) < c.maxEntries {
				break
			}
			delete(c.entries, k)
		}
	}
	c.entries[key] = entry{value: value, expiresAt: now.Add(c.ttl)}
	return nil
}

// Clear drops every entry
func (c *MemoryPredictionCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *MemoryPredictionCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of stored entries, expired or not
func (c *MemoryPredictionCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryPredictionCache) cleanupLoop() {
	defer c.wg.Done()

	interval := c.ttl
	if interval <= 0 || interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.mu.Lock()
			c.removeExpired(c.now())
			c.mu.Unlock()
		}
	}
}

// removeExpired must be called with mu held
func (c *MemoryPredictionCache) removeExpired(now time.Time) {
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

var _ commodity.PredictionCache = (*MemoryPredictionCache)(nil)
