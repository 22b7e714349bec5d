package news

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "gstskill:headlines:"

type Cache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, titles []string, ttl time.Duration) error
}

// CachedSource keeps a source's headline list for ttl. Only the list is
// cached; callers still pick from it at random on every request.
type CachedSource struct {
	source HeadlineSource
	cache  Cache
	ttl    time.Duration
}

func NewCachedSource(source HeadlineSource, cache Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{source: source, cache: cache, ttl: ttl}
}

func (s *CachedSource) Name() string {
	return s.source.Name()
}

func (s *CachedSource) Headlines(ctx context.Context) ([]string, error) {
	key := cacheKeyPrefix + s.source.Name()

	titles, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("headline cache read failed", "key", key, "error", err)
	} else if ok {
		return titles, nil
	}

	titles, err = s.source.Headlines(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, titles, s.ttl); err != nil {
		slog.Warn("headline cache write failed", "key", key, "error", err)
	}

	return titles, nil
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var titles []string
	if err := json.Unmarshal(data, &titles); err != nil {
		return nil, false, err
	}
	return titles, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, titles []string, ttl time.Duration) error {
	data, err := json.Marshal(titles)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}
