package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is an in-process Cache bounded by entry count. When full, the
// least recently used entry is evicted. Each entry carries its own TTL.
type MemoryCache struct {
	entries    *lru.Cache[string, memEntry]
	defaultTTL time.Duration
	now        func() time.Time

	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryCache creates a MemoryCache and starts its janitor goroutine
func NewMemoryCache(defaultTTL time.Duration, maxSize int) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	if maxSize <= 0 {
		maxSize = 10000
	}
	// lru.New only fails on a non-positive size
	entries, _ := lru.New[string, memEntry](maxSize)
	c := &MemoryCache{
		entries:    entries,
		defaultTTL: defaultTTL,
		now:        time.Now,
		stopChan:   make(chan struct{}),
	}
	c.wg.Add(1)
	go c.cleanupLoop(time.Minute)
	return c
}

// Get implements Cache
func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	e, ok := c.entries.Get(key)
	if !ok {
		return false, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.entries.Remove(key)
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, fmt.Errorf("decode cached %q: %w", key, err)
	}
	return true, nil
}

// Set implements Cache
func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value %q: %w", key, err)
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.entries.Add(key, memEntry{data: data, expiresAt: c.now().Add(ttl)})
	return nil
}

// Delete implements Cache
func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.entries.Remove(k)
	}
	return nil
}

// Len returns the number of stored entries, including expired ones not yet swept
func (c *MemoryCache) Len() int {
	return c.entries.Len()
}

// Close stops the janitor. Safe to call multiple times.
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *MemoryCache) cleanup() {
	now := c.now()
	for _, k := range c.entries.Keys() {
		if e, ok := c.entries.Peek(k); ok && !now.Before(e.expiresAt) {
			c.entries.Remove(k)
		}
	}
}

var _ Cache = (*MemoryCache)(nil)
