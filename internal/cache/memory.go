package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is the default single-process ChoiceCache: a mutex-guarded
// map with TTL eviction by a background sweep.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

type memoryEntry struct {
	set       ChoiceSet
	expiresAt time.Time
}

var _ ChoiceCache = (*MemoryCache)(nil)

// NewMemoryCache starts the sweep goroutine. Close stops it.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *MemoryCache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for id, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, id)
				}
			}
			c.mu.Unlock()
		}
	}
}

func (c *MemoryCache) Put(ctx context.Context, playerID string, set ChoiceSet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[playerID] = memoryEntry{set: set, expiresAt: time.Now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Get(ctx context.Context, playerID string) (*ChoiceSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[playerID]
	if !ok {
		return nil, nil
	}
	// Expiry is also checked on read so a stale entry never survives
	// between sweeps.
	if time.Now().After(e.expiresAt) {
		delete(c.entries, playerID)
		return nil, nil
	}
	set := e.set
	return &set, nil
}

func (c *MemoryCache) Delete(ctx context.Context, playerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, playerID)
	return nil
}

func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}
