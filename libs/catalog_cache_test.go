package libs

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapCache struct {
	data    map[string][]models.Item
	readErr error
}

func (c *mapCache) Get(ctx context.Context, key string) ([]models.Item, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}
	items, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return items, nil
}

func (c *mapCache) Set(ctx context.Context, key string, items []models.Item) error {
	c.data[key] = items
	return nil
}

type countingSource struct {
	calls int
	items []models.Item
	err   error
}

func (s *countingSource) FetchPage(ctx context.Context, query string) ([]models.Item, error) {
	s.calls++
	return s.items, s.err
}

func (s *countingSource) CacheKey(query string) string { return "k:" + query }

func TestCachedSourceFillsAndServesCache(t *testing.T) {
	src := &countingSource{items: []models.Item{{ID: 1}}}
	cache := &mapCache{data: map[string][]models.Item{}}
	cached := NewCachedCatalogSource(src, cache, zap.NewNop())

	for i := 0; i < 3; i++ {
		items, err := cached.FetchPage(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, src.items, items)
	}
	assert.Equal(t, 1, src.calls)
	assert.Contains(t, cache.data, "k:a")
}

func TestCachedSourceDoesNotCacheFailures(t *testing.T) {
	src := &countingSource{err: &FetchError{Kind: FetchErrStatus, Err: errors.New("500")}}
	cache := &mapCache{data: map[string][]models.Item{}}
	cached := NewCachedCatalogSource(src, cache, zap.NewNop())

	_, err := cached.FetchPage(context.Background(), "a")
	assert.Equal(t, FetchErrStatus, KindOf(err))
	assert.Empty(t, cache.data)
}

func TestCachedSourceFallsThroughOnCacheError(t *testing.T) {
	src := &countingSource{items: []models.Item{{ID: 2}}}
	cache := &mapCache{data: map[string][]models.Item{}, readErr: errors.New("redis down")}
	cached := NewCachedCatalogSource(src, cache, zap.NewNop())

	items, err := cached.FetchPage(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []models.Item{{ID: 2}}, items)
	assert.Equal(t, 1, src.calls)
}

func newRedisPageCache(t *testing.T, ttl time.Duration) (*RedisPageCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisPageCache(rdb, ttl), mr
}

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestRedisPageCacheRoundTrip(t *testing.T) {
	ttl := 5 * time.Minute
	cache, mr := newRedisPageCache(t, ttl)
	ctx := context.Background()
	key := "remote_catalog:l6"

	_, err := cache.Get(ctx, key)
	require.ErrorIs(t, err, ErrCacheMiss)

	page := []models.Item{
		{ID: 7, Title: "X", Description: "Y", Price: decimal.RequireFromString("19.9"), Thumbnail: "u1"},
		{ID: 8, Title: "Z", Price: decimal.RequireFromString("1.005")},
	}
	require.NoError(t, cache.Set(ctx, key, page))
	assert.Equal(t, ttl, mr.TTL(key))

	got, err := cache.Get(ctx, key)
	require.NoError(t, err)
	if diff := cmp.Diff(page, got, decimalEqual); diff != "" {
		t.Errorf("cached page mismatch (-want +got):\n%s", diff)
	}

	mr.FastForward(ttl)
	_, err = cache.Get(ctx, key)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisPageCacheCorruptEntryFallsThrough(t *testing.T) {
	cache, mr := newRedisPageCache(t, time.Minute)
	src := &countingSource{items: []models.Item{{ID: 3, Title: "fresh"}}}
	cached := NewCachedCatalogSource(src, cache, zap.NewNop())

	require.NoError(t, mr.Set("k:a", "{not json"))

	_, err := cache.Get(context.Background(), "k:a")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCacheMiss))

	items, err := cached.FetchPage(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
	require.Len(t, items, 1)
	assert.Equal(t, "fresh", items[0].Title)

	// the fetched page replaced the corrupt entry
	items, err = cached.FetchPage(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 3, items[0].ID)
}

func TestRedisPageCacheServerDown(t *testing.T) {
	cache, mr := newRedisPageCache(t, time.Minute)
	src := &countingSource{items: []models.Item{{ID: 4}}}
	cached := NewCachedCatalogSource(src, cache, zap.NewNop())
	mr.Close()

	items, err := cached.FetchPage(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []int{4}, []int{items[0].ID})
}
