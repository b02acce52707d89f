// Package handlertest holds helpers shared by handler tests
package handlertest

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/model"
	"github.com/sahilchouksey/skills-lab/utils/auth"
	"github.com/sahilchouksey/skills-lab/utils/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Envelope mirrors response.Response with a raw data payload
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

// Decode unmarshals the envelope data into v
func (e Envelope) Decode(t testing.TB, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Data, v), string(e.Data))
}

// Session signs access tokens and guards routes the way the API does
type Session struct {
	JWT  *auth.JWTManager
	Auth *middleware.AuthMiddleware
}

func NewSession(db *gorm.DB) *Session {
	jwtManager := auth.NewJWTManager(auth.JWTConfig{Secret: "handler-test-secret", Issuer: "skills-lab-test"})
	return &Session{JWT: jwtManager, Auth: middleware.NewAuthMiddleware(jwtManager, db)}
}

// Token issues an access token for user
func (s *Session) Token(t testing.TB, user *model.User) string {
	t.Helper()
	pair, err := s.JWT.IssuePair(auth.Subject{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

// Do sends a JSON request through app and decodes the envelope
func Do(t testing.TB, app *fiber.App, method, path, token, body string) (int, Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env Envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}
