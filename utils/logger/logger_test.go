package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactsSecretValues(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := &Logger{SugaredLogger: zap.New(core).Sugar()}

	log.Info("signed in", "user_id", 7, "id_token", "eyJhbGciOi", "AI_API_KEY", "sk-123")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.EqualValues(t, 7, fields["user_id"])
		assert.Equal(t, "[REDACTED]", fields["id_token"])
		assert.Equal(t, "[REDACTED]", fields["AI_API_KEY"])
	}
}

func TestWithKeepsOddTrailingValue(t *testing.T) {
	out := redact([]interface{}{"component", "news", "dangling"})
	assert.Equal(t, []interface{}{"component", "news", "dangling"}, out)
}

func TestNopDoesNotPanic(t *testing.T) {
	l := Nop().With("component", "test")
	l.Debug("x")
	l.Warn("y", "k", "v")
	l.Sync()
}
