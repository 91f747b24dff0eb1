package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encoded values under string keys with a TTL.
// Implementations are safe for concurrent use. Concurrent writers to the same
// key are last-write-wins.
type Cache interface {
	// Get decodes the cached value into dest. It reports false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores value for ttl. A non-positive ttl uses the cache default.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes keys; missing keys are ignored
	Delete(ctx context.Context, keys ...string) error
}

// HitRecorder observes cache lookups, e.g. for Prometheus counters
type HitRecorder interface {
	CacheLookup(cache string, hit bool)
}

// Observed wraps a Cache and reports every Get to recorder under name
type Observed struct {
	Cache
	name     string
	recorder HitRecorder
}

// NewObserved creates a Cache that reports hits and misses
func NewObserved(c Cache, name string, recorder HitRecorder) *Observed {
	return &Observed{Cache: c, name: name, recorder: recorder}
}

// Get implements Cache
func (o *Observed) Get(ctx context.Context, key string, dest any) (bool, error) {
	hit, err := o.Cache.Get(ctx, key, dest)
	if err == nil && o.recorder != nil {
		o.recorder.CacheLookup(o.name, hit)
	}
	return hit, err
}
