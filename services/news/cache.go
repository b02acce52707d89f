package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sahilchouksey/skills-lab/utils/cache"
)

// Entry is a cached feed together with the time it was fetched
type Entry struct {
	Items     []Item
	FetchedAt time.Time
}

// Cache stores feeds without expiry. Freshness is judged by the caller from
// FetchedAt so stale entries stay available as a fallback.
type Cache interface {
	// Load returns nil, nil when nothing is cached under key
	Load(ctx context.Context, key string) (*Entry, error)
	Store(ctx context.Context, key string, entry Entry) error
}

// CacheKey is news_{version}_{region}_{category}
func CacheKey(version, region, category string) string {
	return fmt.Sprintf("news_%s_%s_%s", version, region, category)
}

func timeKey(key string) string {
	return key + "_time"
}

// RedisCache keeps the JSON item list under key and the fetch time, in Unix
// milliseconds, under key_time
type RedisCache struct {
	redis redisStore
}

// redisStore is the subset of cache.RedisCache the news cache uses
type redisStore interface {
	Get(ctx context.Context, key string) (string, error)
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetAll(ctx context.Context, values map[string]interface{}, expiration time.Duration) error
}

func NewRedisCache(r *cache.RedisCache) *RedisCache {
	return &RedisCache{redis: r}
}

func (c *RedisCache) Load(ctx context.Context, key string) (*Entry, error) {
	stamp, err := c.redis.Get(ctx, timeKey(key))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	ms, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt timestamp under %s: %w", timeKey(key), err)
	}

	var items []Item
	if err := c.redis.GetJSON(ctx, key, &items); err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("corrupt news entry under %s: %w", key, err)
	}
	return &Entry{Items: items, FetchedAt: time.UnixMilli(ms)}, nil
}

func (c *RedisCache) Store(ctx context.Context, key string, entry Entry) error {
	data, err := json.Marshal(entry.Items)
	if err != nil {
		return err
	}
	return c.redis.SetAll(ctx, map[string]interface{}{
		key:          string(data),
		timeKey(key): strconv.FormatInt(entry.FetchedAt.UnixMilli(), 10),
	}, 0)
}
