package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestRedactingEncoder_SensitiveKeys(t *testing.T) {
	logger, buf := newBufferedLogger(t, "json", zapcore.InfoLevel)
	ctx := context.Background()

	logger.Info(ctx, "finding", zap.String("finding.secret", "7341852096:AAF3zKpL8mNqR2tVxW0yZ1dCeJ4gHiUoPs6"))
	logger.With(zap.String("api_key", "abcd1234")).Info(ctx, "child")

	out := buf.String()
	assert.NotContains(t, out, "AAF3zKpL8mNqR2tVxW0yZ1dCeJ4gHiUoPs6")
	assert.NotContains(t, out, "abcd1234")
	assert.Contains(t, out, "[REDACTED]")
}

func TestRedactingEncoder_Patterns(t *testing.T) {
	logger, buf := newBufferedLogger(t, "json", zapcore.InfoLevel)
	logger.Info(context.Background(), "header", zap.String("stderr", "Authorization: Bearer eyJhbGciOi"))

	out := buf.String()
	assert.NotContains(t, out, "eyJhbGciOi")
	assert.Contains(t, out, "[REDACTED:pattern]")
}

func TestRedactingEncoder_Disabled(t *testing.T) {
	enc, err := NewRedactingEncoder(newEncoder("json"), RedactionConfig{Enabled: false})
	require.NoError(t, err)
	assert.False(t, enc.shouldRedactKey("secret"))
}

func TestNewRedactingEncoder_RejectsBadPatterns(t *testing.T) {
	_, err := NewRedactingEncoder(newEncoder("json"), RedactionConfig{Enabled: true, Patterns: []string{"("}})
	assert.Error(t, err)
}

func TestRedactedString(t *testing.T) {
	f := RedactedString("secret", "12345678")
	assert.Equal(t, "[REDACTED:8]", f.String)
}

func TestTestLogger_AssertNoSecrets(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "scan finished", zap.Int("findings", 1))
	tl.AssertNoSecrets(t, "AAF3zKpL8mNqR2tVxW0yZ1dCeJ4gHiUoPs6")
	tl.AssertField(t, "scan finished", "findings", 1)
}
