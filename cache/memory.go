// Package cache provides query-result cache backends: an in-process
// TTL map for the SDK and a Redis adapter for gateway deployments.
package cache

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sensesdx/portalkit/core"
)

var ErrNotFound = errors.New("cache entry not found")

type Memory struct {
	entries map[string]*core.CacheEntry
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int

	// counters
	hits      int64
	misses    int64
	sets      int64
	deletes   int64
	evictions int64
}

var _ core.CacheWithStats = (*Memory)(nil)

func NewMemory(c core.CacheConfig) *Memory {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
	if c.MaxSize == 0 {
		c.MaxSize = 500
	}

	return &Memory{
		entries: make(map[string]*core.CacheEntry),
		ttl:     c.TTL,
		maxSize: c.MaxSize,
	}
}

func (c *Memory) Get(key string) (*core.CacheEntry, error) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return nil, ErrNotFound
	}

	if time.Since(entry.FetchedAt) > c.ttl {
		// expired
		atomic.AddInt64(&c.misses, 1)
		if err := c.Delete(key); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	atomic.AddInt64(&c.hits, 1)
	return entry, nil
}

func (c *Memory) Set(key string, entry *core.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple eviction if full
	if len(c.entries) >= c.maxSize {
		for k := range c.entries {
			delete(c.entries, k)
			atomic.AddInt64(&c.evictions, 1)
			break
		}
	}

	c.entries[key] = entry

	atomic.AddInt64(&c.sets, 1)
	return nil
}

func (c *Memory) MarkStale(prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, entry := range c.entries {
		if strings.HasPrefix(k, prefix) {
			// Get hands entries out to readers that inspect them after
			// the lock is released, so replace instead of mutating
			stale := *entry
			stale.Stale = true
			c.entries[k] = &stale
		}
	}
	return nil
}

func (c *Memory) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, existed := c.entries[key]; existed {
		delete(c.entries, key)
		atomic.AddInt64(&c.deletes, 1)
	}
	return nil
}

func (c *Memory) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*core.CacheEntry)
	return nil
}

func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Memory) Stats() core.CacheStats {
	return core.CacheStats{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Sets:      atomic.LoadInt64(&c.sets),
		Deletes:   atomic.LoadInt64(&c.deletes),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      c.Len(),
		TTL:       c.ttl,
	}
}
