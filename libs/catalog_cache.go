package libs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrCacheMiss = errors.New("cache miss")

type PageCache interface {
	Get(ctx context.Context, key string) ([]models.Item, error)
	Set(ctx context.Context, key string, items []models.Item) error
}

type RedisPageCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisPageCache(rdb *redis.Client, ttl time.Duration) *RedisPageCache {
	return &RedisPageCache{rdb: rdb, ttl: ttl}
}

func (r *RedisPageCache) Get(ctx context.Context, key string) ([]models.Item, error) {
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var items []models.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *RedisPageCache) Set(ctx context.Context, key string, items []models.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key, raw, r.ttl).Err()
}

var _ PageCache = (*RedisPageCache)(nil)

type KeyedCatalogSource interface {
	CatalogSource
	CacheKey(query string) string
}

// CachedCatalogSource serves pages from cache and fills it on successful
// fetches. Cache failures fall through to the source.
type CachedCatalogSource struct {
	source KeyedCatalogSource
	cache  PageCache
	log    *zap.Logger
}

func NewCachedCatalogSource(source KeyedCatalogSource, cache PageCache, log *zap.Logger) *CachedCatalogSource {
	return &CachedCatalogSource{source: source, cache: cache, log: log}
}

func (s *CachedCatalogSource) FetchPage(ctx context.Context, query string) ([]models.Item, error) {
	key := s.source.CacheKey(query)

	items, err := s.cache.Get(ctx, key)
	if err == nil {
		s.log.Debug("remote catalog cache hit", zap.String("key", key), zap.Int("items", len(items)))
		return items, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.log.Warn("remote catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	items, err = s.source.FetchPage(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, items); err != nil {
		s.log.Warn("remote catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
	return items, nil
}
