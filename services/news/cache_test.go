package news

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/sahilchouksey/skills-lab/utils/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "news_v7_fi_research", CacheKey("v7", RegionFinland, "research"))
	assert.Equal(t, "news_v7_fi_research_time", timeKey(CacheKey("v7", RegionFinland, "research")))
}

type memoryRedis map[string]string

func (m memoryRedis) Get(_ context.Context, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", cache.ErrNotFound
	}
	return v, nil
}

func (m memoryRedis) GetJSON(ctx context.Context, key string, dest interface{}) error {
	v, err := m.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(v), dest)
}

func (m memoryRedis) SetAll(_ context.Context, values map[string]interface{}, _ time.Duration) error {
	for k, v := range values {
		m[k] = v.(string)
	}
	return nil
}

func TestRedisCacheLoadStore(t *testing.T) {
	ctx := context.Background()
	store := memoryRedis{}
	c := &RedisCache{redis: store}
	key := CacheKey("v7", RegionFinland, CategoryAll)

	missing, err := c.Load(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, missing)

	at := time.UnixMilli(1767225600000)
	require.NoError(t, c.Store(ctx, key, Entry{Items: []Item{{ID: "1", Title: "Helsinki AI hub"}}, FetchedAt: at}))
	assert.Equal(t, "1767225600000", store[timeKey(key)])

	got, err := c.Load(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.FetchedAt.Equal(at))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Helsinki AI hub", got.Items[0].Title)
}

func TestRedisCacheLoadRejectsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	key := CacheKey("v7", RegionGlobal, CategoryAll)

	_, err := (&RedisCache{redis: memoryRedis{key: "not json", timeKey(key): "1767225600000"}}).Load(ctx, key)
	assert.ErrorContains(t, err, "corrupt news entry")

	_, err = (&RedisCache{redis: memoryRedis{key: "[]", timeKey(key): "yesterday"}}).Load(ctx, key)
	assert.ErrorContains(t, err, "corrupt timestamp")
}

func TestRedisCacheStoresTimestampAlongside(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("set RUN_INTEGRATION_TESTS=true to run redis integration tests")
	}
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	r, err := cache.NewRedisCache(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	ctx := context.Background()
	key := CacheKey("test"+time.Now().Format("150405.000000"), RegionGlobal, CategoryAll)
	t.Cleanup(func() { _ = r.Delete(ctx, key, timeKey(key)) })

	c := NewRedisCache(r)
	missing, err := c.Load(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, missing)

	at := time.UnixMilli(1767225600000)
	require.NoError(t, c.Store(ctx, key, Entry{Items: []Item{{ID: "1", Title: "t"}}, FetchedAt: at}))

	raw, err := r.Get(ctx, timeKey(key))
	require.NoError(t, err)
	assert.Equal(t, "1767225600000", raw)

	got, err := c.Load(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.FetchedAt.Equal(at))
	assert.Equal(t, "t", got.Items[0].Title)

	ttl, err := r.TTL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl)
}
