package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/database/testutil"
	"github.com/sahilchouksey/skills-lab/handlers/handlertest"
	"github.com/sahilchouksey/skills-lab/model"
	"github.com/sahilchouksey/skills-lab/services"
	"github.com/sahilchouksey/skills-lab/utils/auth"
	"github.com/sahilchouksey/skills-lab/utils/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeVerifier map[string]auth.Principal

func (f fakeVerifier) Verify(ctx context.Context, rawToken string) (*auth.Principal, error) {
	p, ok := f[rawToken]
	if !ok {
		return nil, auth.ErrIdentityRejected
	}
	return &p, nil
}

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	jwtManager := auth.NewJWTManager(auth.JWTConfig{Secret: "test-secret", Issuer: "skills-lab-test"})
	verifier := fakeVerifier{
		"ada-token":  {Subject: "g-ada", Email: "ada@example.com", Name: "Ada"},
		"boss-token": {Subject: "g-boss", Email: "boss@example.com", Name: "Boss"},
	}
	isAdmin := func(email string) bool { return email == "boss@example.com" }

	h := NewAuthHandler(verifier,
		services.NewProfileService(db, isAdmin, nil),
		services.NewCategoryService(db, nil),
		jwtManager, nil, nil)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	app := fiber.New()
	app.Post("/auth/session", h.SignIn)
	app.Post("/auth/refresh", h.Refresh)
	app.Post("/auth/logout", authMiddleware.Required(), h.Logout)
	app.Get("/profile", authMiddleware.Required(), h.GetProfile)
	app.Put("/profile/preferences", authMiddleware.Required(), h.UpdatePreferences)
	return app, db
}

func signIn(t *testing.T, app *fiber.App, idToken string) SessionResponse {
	t.Helper()
	status, env := handlertest.Do(t, app, http.MethodPost, "/auth/session", "", `{"id_token":"`+idToken+`"}`)
	require.Equal(t, http.StatusOK, status)
	var out SessionResponse
	env.Decode(t, &out)
	return out
}

func TestSignInCreatesPendingProfileWithDefaultCategories(t *testing.T) {
	app, db := setup(t)

	first := signIn(t, app, "ada-token")
	assert.True(t, first.Created)
	assert.Equal(t, model.UserStatusPending, first.User.Status)
	assert.NotEmpty(t, first.Tokens.AccessToken)

	var categories []model.Category
	require.NoError(t, db.Where("user_id = ?", first.User.ID).Order("sort_order").Find(&categories).Error)
	require.Len(t, categories, len(services.DefaultCategories))
	assert.Equal(t, "Coding", categories[0].Name)

	second := signIn(t, app, "ada-token")
	assert.False(t, second.Created)
	assert.Equal(t, first.User.ID, second.User.ID)

	var count int64
	db.Model(&model.Category{}).Where("user_id = ?", first.User.ID).Count(&count)
	assert.EqualValues(t, len(services.DefaultCategories), count)
}

func TestSignInAdminEmailIsApproved(t *testing.T) {
	app, _ := setup(t)
	out := signIn(t, app, "boss-token")
	assert.Equal(t, model.RoleAdmin, out.User.Role)
	assert.Equal(t, model.UserStatusApproved, out.User.Status)
}

func TestSignInRejectsBadToken(t *testing.T) {
	app, _ := setup(t)

	status, env := handlertest.Do(t, app, http.MethodPost, "/auth/session", "", `{"id_token":"forged"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, env = handlertest.Do(t, app, http.MethodPost, "/auth/session", "", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	app, _ := setup(t)
	session := signIn(t, app, "ada-token")
	body := `{"refresh_token":"` + session.Tokens.RefreshToken + `"}`

	status, env := handlertest.Do(t, app, http.MethodPost, "/auth/refresh", "", body)
	require.Equal(t, http.StatusOK, status)
	var refreshed SessionResponse
	env.Decode(t, &refreshed)
	assert.NotEqual(t, session.Tokens.RefreshToken, refreshed.Tokens.RefreshToken)

	status, _ = handlertest.Do(t, app, http.MethodPost, "/auth/refresh", "", body)
	assert.Equal(t, http.StatusUnauthorized, status)

	// an access token is not a refresh token
	status, _ = handlertest.Do(t, app, http.MethodPost, "/auth/refresh", "", `{"refresh_token":"`+session.Tokens.AccessToken+`"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	app, _ := setup(t)
	token := signIn(t, app, "ada-token").Tokens.AccessToken

	status, _ := handlertest.Do(t, app, http.MethodGet, "/profile", token, "")
	require.Equal(t, http.StatusOK, status)

	status, _ = handlertest.Do(t, app, http.MethodPost, "/auth/logout", token, "")
	require.Equal(t, http.StatusOK, status)

	status, _ = handlertest.Do(t, app, http.MethodGet, "/profile", token, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogoutEndsRefreshTokens(t *testing.T) {
	app, _ := setup(t)
	session := signIn(t, app, "ada-token")

	status, _ := handlertest.Do(t, app, http.MethodPost, "/auth/logout", session.Tokens.AccessToken, "")
	require.Equal(t, http.StatusOK, status)

	status, _ = handlertest.Do(t, app, http.MethodPost, "/auth/refresh", "", `{"refresh_token":"`+session.Tokens.RefreshToken+`"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	// signing in again starts a fresh, working session
	fresh := signIn(t, app, "ada-token")
	status, _ = handlertest.Do(t, app, http.MethodGet, "/profile", fresh.Tokens.AccessToken, "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = handlertest.Do(t, app, http.MethodPost, "/auth/refresh", "", `{"refresh_token":"`+fresh.Tokens.RefreshToken+`"}`)
	assert.Equal(t, http.StatusOK, status)
}

func TestUpdatePreferences(t *testing.T) {
	app, _ := setup(t)
	token := signIn(t, app, "ada-token").Tokens.AccessToken

	status, env := handlertest.Do(t, app, http.MethodPut, "/profile/preferences", token, `{"daily_goal_minutes":45,"notifications":false}`)
	require.Equal(t, http.StatusOK, status)
	var user model.User
	env.Decode(t, &user)
	assert.Equal(t, model.Preferences{DailyGoalMinutes: 45, Notifications: false}, user.Preferences.Data())

	status, _ = handlertest.Do(t, app, http.MethodPut, "/profile/preferences", token, `{"daily_goal_minutes":2,"notifications":true}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}
