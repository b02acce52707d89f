package news

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]Entry)}
}

func (c *memoryCache) Load(_ context.Context, key string) (*Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (c *memoryCache) Store(_ context.Context, key string, e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
	return nil
}

type stubProvider struct {
	name  string
	items []Item
	err   error
	calls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Fetch(context.Context, string, string) ([]Item, error) {
	p.calls++
	return p.items, p.err
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(c Cache, providers map[string][]Provider, clk *clock) *Service {
	s := NewService(DefaultVocabulary(), providers, c, Config{}, nil)
	s.now = clk.now
	return s
}

func TestGetServesFreshCacheAndStaleOnFailure(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	clk := &clock{t: start}
	cache := newMemoryCache()
	provider := &stubProvider{name: "newsapi", items: []Item{{ID: "global-all-0", Title: "Original", Date: "2026-04-01"}}}
	svc := newTestService(cache, map[string][]Provider{RegionGlobal: {provider}}, clk)

	feed, err := svc.Get(ctx, RegionGlobal, "")
	require.NoError(t, err)
	assert.False(t, feed.Cached)
	assert.Equal(t, CategoryAll, feed.Category)
	require.Len(t, feed.Items, 1)

	_, ok := cache.entries["news_v7_global_all"]
	assert.True(t, ok)

	// T+23h: served from cache, unchanged
	provider.items = []Item{{Title: "Newer"}}
	clk.t = start.Add(23 * time.Hour)
	feed, err = svc.Get(ctx, RegionGlobal, CategoryAll)
	require.NoError(t, err)
	assert.True(t, feed.Cached)
	assert.False(t, feed.Stale)
	assert.Equal(t, "Original", feed.Items[0].Title)
	assert.Equal(t, 1, provider.calls)

	// T+25h: refetch is attempted, fails, stale entry is returned
	provider.err = errors.New("upstream down")
	clk.t = start.Add(25 * time.Hour)
	feed, err = svc.Get(ctx, RegionGlobal, CategoryAll)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
	assert.True(t, feed.Stale)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "Original", feed.Items[0].Title)
	require.NotNil(t, feed.FetchedAt)
	assert.True(t, feed.FetchedAt.Equal(start))

	// recovery replaces the entry
	provider.err = nil
	feed, err = svc.Get(ctx, RegionGlobal, CategoryAll)
	require.NoError(t, err)
	assert.False(t, feed.Cached)
	assert.Equal(t, "Newer", feed.Items[0].Title)
}

func TestGetWithoutCacheOrData(t *testing.T) {
	clk := &clock{t: time.Now()}
	failing := &stubProvider{name: "gnews", err: errors.New("boom")}
	svc := newTestService(newMemoryCache(), map[string][]Provider{RegionFinland: {failing}}, clk)

	feed, err := svc.Get(context.Background(), RegionFinland, "jobs")
	require.NoError(t, err)
	assert.NotNil(t, feed.Items)
	assert.Empty(t, feed.Items)

	_, err = svc.Get(context.Background(), "mars", CategoryAll)
	assert.ErrorIs(t, err, ErrUnknownRegion)
	_, err = svc.Get(context.Background(), RegionFinland, "sports")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestGetMergesProviders(t *testing.T) {
	clk := &clock{t: time.Now()}
	a := &stubProvider{name: "newsapi", items: []Item{{ID: "a", Title: "AI in Finland", Date: "2026-01-01"}}}
	b := &stubProvider{name: "gnews", items: []Item{{ID: "b", Title: "  ai in finland  ", Date: "2026-01-02"}}}
	c := &stubProvider{name: "newsdata", err: errors.New("quota")}
	svc := newTestService(nil, map[string][]Provider{RegionFinland: {a, b, c}}, clk)

	feed, err := svc.Get(context.Background(), RegionFinland, CategoryAll)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "a", feed.Items[0].ID)
}

func TestPrefetchRefreshesEveryPair(t *testing.T) {
	clk := &clock{t: time.Now()}
	cache := newMemoryCache()
	p := &stubProvider{name: "newsapi", items: []Item{{Title: "x", Date: "2026-01-01"}}}
	svc := newTestService(cache, map[string][]Provider{RegionFinland: {p}, RegionGlobal: {p}}, clk)

	n, err := svc.Prefetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 18, n)
	assert.Len(t, cache.entries, 18)

	n, err = svc.Prefetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 18, n)
}
