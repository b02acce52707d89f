package news

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/handlers/handlertest"
	"github.com/sahilchouksey/skills-lab/services/news"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProvider []news.Item

func (p staticProvider) Name() string { return "static" }

func (p staticProvider) Fetch(context.Context, string, string) ([]news.Item, error) {
	return p, nil
}

func newApp() *fiber.App {
	svc := news.NewService(news.DefaultVocabulary(), map[string][]news.Provider{
		news.RegionFinland: {staticProvider{{ID: "a", Title: "Finnish AI lab opens", Date: "2026-10-01"}}},
		news.RegionGlobal:  {staticProvider{{ID: "b", Title: "Model release", Date: "2026-10-02"}}},
	}, nil, news.Config{}, nil)
	h := NewNewsHandler(svc, nil)

	app := fiber.New()
	app.Get("/news", h.GetNews)
	app.Get("/news/categories", h.ListCategories)
	return app
}

func TestGetNews(t *testing.T) {
	app := newApp()

	status, env := handlertest.Do(t, app, http.MethodGet, "/news", "", "")
	require.Equal(t, http.StatusOK, status)
	var feed news.Feed
	env.Decode(t, &feed)
	assert.Equal(t, news.RegionFinland, feed.Region)
	assert.Equal(t, news.CategoryAll, feed.Category)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "Finnish AI lab opens", feed.Items[0].Title)

	status, env = handlertest.Do(t, app, http.MethodGet, "/news?region=global&category=research", "", "")
	require.Equal(t, http.StatusOK, status)
	env.Decode(t, &feed)
	assert.Equal(t, "research", feed.Category)
	assert.Equal(t, "Model release", feed.Items[0].Title)
}

func TestGetNewsRejectsUnknownFilters(t *testing.T) {
	app := newApp()

	status, env := handlertest.Do(t, app, http.MethodGet, "/news?region=mars", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Error.Details, "region")

	status, _ = handlertest.Do(t, app, http.MethodGet, "/news?category=gossip", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestListNewsCategories(t *testing.T) {
	status, env := handlertest.Do(t, newApp(), http.MethodGet, "/news/categories", "", "")
	require.Equal(t, http.StatusOK, status)
	var out CategoriesResponse
	env.Decode(t, &out)
	assert.Equal(t, []string{news.RegionFinland, news.RegionGlobal}, out.Regions)
	assert.Len(t, out.Categories, 8)
}
