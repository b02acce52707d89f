package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCounters struct {
	values map[string]int64
	ttls   map[string]time.Duration
}

func newMemoryCounters() *memoryCounters {
	return &memoryCounters{values: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCounters) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.values[key]
	return ok, nil
}

func (m *memoryCounters) TTL(_ context.Context, key string) (time.Duration, error) {
	return m.ttls[key], nil
}

func (m *memoryCounters) Increment(_ context.Context, key string) (int64, error) {
	m.values[key]++
	return m.values[key], nil
}

func (m *memoryCounters) Expire(_ context.Context, key string, expiration time.Duration) error {
	m.ttls[key] = expiration
	return nil
}

func (m *memoryCounters) Set(_ context.Context, key string, _ interface{}, expiration time.Duration) error {
	m.values[key] = 1
	m.ttls[key] = expiration
	return nil
}

func (m *memoryCounters) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
		delete(m.ttls, k)
	}
	return nil
}

func throttledApp(throttle *SignInThrottle) *fiber.App {
	app := fiber.New()
	app.Post("/session", throttle.Check(), func(c *fiber.Ctx) error {
		if c.Get("X-Token") != "good" {
			throttle.RecordFailure(c.UserContext(), c.IP())
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		throttle.RecordSuccess(c.UserContext(), c.IP())
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func signIn(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/session", nil)
	req.Header.Set("X-Token", token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestSignInThrottleLocksAfterRepeatedFailures(t *testing.T) {
	store := newMemoryCounters()
	app := throttledApp(NewSignInThrottle(store))

	for i := 0; i < signInMaxFailures; i++ {
		assert.Equal(t, fiber.StatusUnauthorized, signIn(t, app, "bad"))
	}

	req := httptest.NewRequest("POST", "/session", nil)
	req.Header.Set("X-Token", "good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "900", resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestSignInThrottleSuccessResetsCounter(t *testing.T) {
	store := newMemoryCounters()
	app := throttledApp(NewSignInThrottle(store))

	for i := 0; i < signInMaxFailures-1; i++ {
		signIn(t, app, "bad")
	}
	assert.Equal(t, fiber.StatusOK, signIn(t, app, "good"))

	for i := 0; i < signInMaxFailures-1; i++ {
		signIn(t, app, "bad")
	}
	assert.Equal(t, fiber.StatusOK, signIn(t, app, "good"))
}

func TestNilSignInThrottleNeverBlocks(t *testing.T) {
	app := throttledApp(nil)

	for i := 0; i < signInMaxFailures+2; i++ {
		signIn(t, app, "bad")
	}
	assert.Equal(t, fiber.StatusOK, signIn(t, app, "good"))
}
