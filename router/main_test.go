package router

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/database"
	"github.com/sahilchouksey/skills-lab/database/testutil"
	"github.com/sahilchouksey/skills-lab/handlers/handlertest"
	"github.com/sahilchouksey/skills-lab/model"
	"github.com/sahilchouksey/skills-lab/services"
	"github.com/sahilchouksey/skills-lab/services/news"
	"github.com/sahilchouksey/skills-lab/services/syllabus"
	"github.com/sahilchouksey/skills-lab/services/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutesAreGuarded(t *testing.T) {
	db := testutil.DB(t)
	session := handlertest.NewSession(db)
	catalog, err := tools.Load()
	require.NoError(t, err)

	achievements := services.NewAchievementService(db, nil)
	progress := services.NewProgressService(db, nil, services.WithAchievements(achievements))
	generator := syllabus.NewGenerator(nil, nil)

	app := fiber.New()
	SetupRoutes(app, &Dependencies{
		Store:        database.NewGORMStore(db, nil),
		DB:           db,
		JWT:          session.JWT,
		Profiles:     services.NewProfileService(db, nil, nil),
		Categories:   services.NewCategoryService(db, nil),
		Courses:      services.NewCourseService(db, generator, progress, nil),
		Progress:     progress,
		Achievements: achievements,
		Syllabus:     generator,
		News:         news.NewService(news.DefaultVocabulary(), map[string][]news.Provider{news.RegionFinland: nil, news.RegionGlobal: nil}, nil, news.Config{}, nil),
		Tools:        catalog,
	})

	pending := testutil.SeedUser(t, db, "pending@example.com", model.UserStatusPending)
	approved := testutil.SeedUser(t, db, "approved@example.com", model.UserStatusApproved)

	req, err := http.NewRequest(http.MethodGet, "/ping", nil)
	require.NoError(t, err)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"anonymous categories", http.MethodGet, "/api/v1/categories", "", http.StatusUnauthorized},
		{"pending profile", http.MethodGet, "/api/v1/profile", session.Token(t, pending), http.StatusOK},
		{"pending categories", http.MethodGet, "/api/v1/categories", session.Token(t, pending), http.StatusForbidden},
		{"approved categories", http.MethodGet, "/api/v1/categories", session.Token(t, approved), http.StatusOK},
		{"approved tools", http.MethodGet, "/api/v1/tools", session.Token(t, approved), http.StatusOK},
		{"approved news", http.MethodGet, "/api/v1/news?region=global", session.Token(t, approved), http.StatusOK},
		{"approved stats", http.MethodGet, "/api/v1/dashboard/stats", session.Token(t, approved), http.StatusOK},
		{"learner admin", http.MethodGet, "/api/v1/admin/users", session.Token(t, approved), http.StatusForbidden},
		{"session without token", http.MethodPost, "/api/v1/auth/session", "", http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := handlertest.Do(t, app, tc.method, tc.path, tc.token, "{}")
			assert.Equal(t, tc.want, status)
		})
	}
}
