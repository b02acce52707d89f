package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsAPIFetch(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"status":"ok","articles":[
			{"title":" Helsinki AI hub ","description":"<b>New</b> hub","url":"https://a","publishedAt":"2026-03-01T10:00:00Z","source":{"name":"Yle"},"content":"Long content"}
		]}`))
	}))
	defer srv.Close()

	vocab := DefaultVocabulary()
	items, err := NewNewsAPI("key", srv.URL, vocab).Fetch(context.Background(), RegionFinland, "research")
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "fi-research-0", items[0].ID)
	assert.Equal(t, "Helsinki AI hub", items[0].Title)
	assert.Equal(t, "New hub", items[0].Excerpt)
	assert.Equal(t, "Long content", items[0].Summary)
	assert.Equal(t, "2026-03-01", items[0].Date)
	assert.Equal(t, "Yle", items[0].Source)

	assert.Equal(t, vocab.FinlandQuery("research"), query.Get("q"))
	assert.Equal(t, "key", query.Get("apiKey"))
	assert.Equal(t, "15", query.Get("pageSize"))
	assert.Equal(t, "publishedAt", query.Get("sortBy"))
	assert.Equal(t, "title,description", query.Get("searchIn"))
	assert.Contains(t, query.Get("excludeDomains"), "slashdot.org")
}

func TestNewsAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apiKey") == "bad" {
			_, _ = w.Write([]byte(`{"status":"error","message":"apiKeyInvalid"}`))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewNewsAPI("bad", srv.URL, DefaultVocabulary()).Fetch(context.Background(), RegionGlobal, CategoryAll)
	assert.ErrorContains(t, err, "apiKeyInvalid")

	_, err = NewNewsAPI("key", srv.URL, DefaultVocabulary()).Fetch(context.Background(), RegionGlobal, CategoryAll)
	assert.ErrorContains(t, err, "status 429")
}

func TestProvidersWithoutKeyDoNotCallOut(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	vocab := DefaultVocabulary()
	for _, p := range []Provider{NewNewsAPI("", srv.URL, vocab), NewGNews("", srv.URL, vocab), NewNewsData("", srv.URL, vocab)} {
		items, err := p.Fetch(context.Background(), RegionFinland, CategoryAll)
		require.NoError(t, err, p.Name())
		assert.Empty(t, items, p.Name())
	}
	assert.Zero(t, calls.Load())
}

func TestGNewsFetch(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"articles":[{"title":"Oulu AI","description":"d","url":"https://g","publishedAt":"2026-03-02T08:00:00Z","source":{"name":"Kaleva"}}]}`))
	}))
	defer srv.Close()

	items, err := NewGNews("tok", srv.URL, DefaultVocabulary()).Fetch(context.Background(), RegionFinland, CategoryAll)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "gnews-0", items[0].ID)
	assert.Equal(t, "general", items[0].Category)
	assert.Equal(t, "10", query.Get("max"))
	assert.Equal(t, "tok", query.Get("token"))
}

func TestNewsDataFetch(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/news", r.URL.Path)
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"results":[{"title":"Rahoitus","description":"","content":"sisältö","link":"https://n","pubDate":"2026-03-03 14:30:00","source_id":"kauppalehti"}]}`))
	}))
	defer srv.Close()

	items, err := NewNewsData("k", srv.URL, DefaultVocabulary()).Fetch(context.Background(), RegionFinland, "funding")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2026-03-03", items[0].Date)
	assert.Equal(t, "sisältö", items[0].Summary)
	assert.Equal(t, "kauppalehti", items[0].Source)
	assert.Equal(t, "fi", query.Get("country"))
	assert.Equal(t, "fi,en", query.Get("language"))
	assert.Equal(t, "business", query.Get("category"))
}
