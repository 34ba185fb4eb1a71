package draftcache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	draft     string
	createdAt time.Time
}

// MemoryCache is the default mutex-guarded in-process backend with lazy
// expiry; no background sweep runs, expired entries are dropped on read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewMemoryCacheWithClock is used by tests to control time.
func NewMemoryCacheWithClock(ttl time.Duration, now func() time.Time) *MemoryCache {
	c := NewMemoryCache(ttl)
	c.now = now
	return c
}

func (c *MemoryCache) Get(_ context.Context, fingerprint string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[fingerprint]
	if !ok {
		return "", false, nil
	}
	if c.now().Sub(e.createdAt) >= c.ttl {
		delete(c.entries, fingerprint)
		return "", false, nil
	}
	return e.draft, true, nil
}

func (c *MemoryCache) Put(_ context.Context, fingerprint, draft string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[fingerprint] = memoryEntry{draft: draft, createdAt: c.now()}
	return nil
}

// Len reports live entries, counting expired-but-unswept ones.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
