package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedRoute struct {
	ID       string  `json:"id"`
	Distance float64 `json:"distance"`
}

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache(time.Hour, 10)
	defer c.Close()
	ctx := context.Background()

	t.Run("miss on unknown key", func(t *testing.T) {
		var got cachedRoute
		hit, err := c.Get(ctx, "missing", &got)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("round trips struct values", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "route:1", cachedRoute{ID: "r1", Distance: 12.5}, 0))

		var got cachedRoute
		hit, err := c.Get(ctx, "route:1", &got)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, "r1", got.ID)
		assert.Equal(t, 12.5, got.Distance)
	})

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k", "first", 0))
		require.NoError(t, c.Set(ctx, "k", "second", 0))

		var got string
		hit, err := c.Get(ctx, "k", &got)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, "second", got)
	})

	t.Run("delete removes keys", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "a", 1, 0))
		require.NoError(t, c.Delete(ctx, "a", "never-set"))

		var got int
		hit, err := c.Get(ctx, "a", &got)
		require.NoError(t, err)
		assert.False(t, hit)
	})
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Hour, 10)
	defer c.Close()
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "branch:1", "b1", time.Hour))

	var got string
	now = now.Add(59 * time.Minute)
	hit, err := c.Get(ctx, "branch:1", &got)
	require.NoError(t, err)
	assert.True(t, hit)

	now = now.Add(time.Minute)
	hit, err = c.Get(ctx, "branch:1", &got)
	require.NoError(t, err)
	assert.False(t, hit, "entry must expire exactly at its TTL")

	c.cleanup()
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(time.Hour, 2)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "old", 1, time.Hour))
	require.NoError(t, c.Set(ctx, "touched", 2, time.Hour))

	var v int
	hit, _ := c.Get(ctx, "old", &v)
	require.True(t, hit)

	require.NoError(t, c.Set(ctx, "new", 3, time.Hour))

	assert.Equal(t, 2, c.Len())
	hit, _ = c.Get(ctx, "touched", &v)
	assert.False(t, hit, "least recently used entry is evicted")
	hit, _ = c.Get(ctx, "old", &v)
	assert.True(t, hit)
	hit, _ = c.Get(ctx, "new", &v)
	assert.True(t, hit)
}

func TestMemoryCache_CleanupKeepsLiveEntries(t *testing.T) {
	c := NewMemoryCache(time.Hour, 10)
	defer c.Close()
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "short", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "long", 2, time.Hour))

	now = now.Add(2 * time.Minute)
	c.cleanup()

	assert.Equal(t, 1, c.Len())
	var v int
	hit, err := c.Get(ctx, "long", &v)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestMemoryCache_DecodeError(t *testing.T) {
	c := NewMemoryCache(time.Hour, 10)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "text", 0))
	var n int
	_, err := c.Get(ctx, "k", &n)
	assert.Error(t, err)
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	c := NewMemoryCache(time.Hour, 10)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

type recorder struct {
	hits, misses int
}

func (r *recorder) CacheLookup(_ string, hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func TestObserved_RecordsLookups(t *testing.T) {
	mem := NewMemoryCache(time.Hour, 10)
	defer mem.Close()
	rec := &recorder{}
	c := NewObserved(mem, "routes", rec)
	ctx := context.Background()

	var v string
	_, _ = c.Get(ctx, "x", &v)
	require.NoError(t, c.Set(ctx, "x", "y", 0))
	_, _ = c.Get(ctx, "x", &v)

	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 1, rec.misses)
}

func TestFactory_MemoryWhenRedisDisabled(t *testing.T) {
	f := NewFactory(cfgCache("memory"), cfgRedis(false))
	res, err := f.Create(context.Background())
	require.NoError(t, err)
	defer res.Close()

	_, ok := res.Cache.(*MemoryCache)
	assert.True(t, ok)
	assert.Nil(t, res.Redis)
}

func TestFactory_FallsBackWhenRedisUnreachable(t *testing.T) {
	redisCfg := cfgRedis(true)
	redisCfg.Host = "127.0.0.1"
	redisCfg.Port = 1

	f := NewFactory(cfgCache("redis"), redisCfg)
	res, err := f.Create(context.Background())
	require.NoError(t, err)
	defer res.Close()
	_, ok := res.Cache.(*MemoryCache)
	assert.True(t, ok)

	strict := NewFactory(cfgCache("redis"), redisCfg, WithInMemoryFallback(false))
	_, err = strict.Create(context.Background())
	assert.Error(t, err)
}
