package logger

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

var errTest = errors.New("boom")

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"error", ErrorLevel},
		{"Error", ErrorLevel},
		{"", InfoLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFromString(tt.input), "input %q", tt.input)
	}
}

func TestFallbackLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(InfoLevel)
	l.SetOutput(&buf)

	l.Debug("invisible")
	assert.Empty(t, buf.String())

	l.Info("visible")
	assert.Contains(t, buf.String(), "[INFO] visible")
}

func TestFallbackFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(DebugLevel)
	l.SetOutput(&buf)

	scoped := l.WithField("run_id", "abc123").WithFields(map[string]interface{}{
		"exit_code": 42,
	})
	scoped.SetOutput(&buf)
	scoped.Infof("finished in %s", "3s")

	out := buf.String()
	assert.Contains(t, out, "finished in 3s")
	assert.Contains(t, out, "run_id=abc123")
	assert.Contains(t, out, "exit_code=42")
}

func TestFallbackFieldsDoNotLeakToParent(t *testing.T) {
	var buf bytes.Buffer
	l := New(DebugLevel)
	l.SetOutput(&buf)

	_ = l.WithField("scoped", true)
	l.Info("plain")

	assert.NotContains(t, buf.String(), "scoped=")
}

func TestFallbackRunContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(DebugLevel)
	l.SetOutput(&buf)

	l.WithRun("run-9", []string{"echo", "hi"}).Info("started")

	out := buf.String()
	assert.Contains(t, out, "run_id=run-9")
	assert.Contains(t, out, "command=echo hi")
}

func TestFallbackWithDurationAndError(t *testing.T) {
	var buf bytes.Buffer
	l := New(DebugLevel)
	l.SetOutput(&buf)

	l.WithDuration(3 * time.Second).Info("done")
	assert.Contains(t, buf.String(), "duration=3s")

	assert.Same(t, l, l.WithError(nil))

	buf.Reset()
	l.WithError(errTest).Error("failed")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestGlobalLoggerSwap(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	replacement := NewTestLogger()
	SetLogger(replacement)
	assert.Same(t, replacement, GetLogger())
}

func TestNewZapLoggerFromEnv(t *testing.T) {
	t.Setenv("SKIFF_LOG_LEVEL", "debug")
	t.Setenv("SKIFF_LOG_FORMAT", "json")

	l, err := NewZapLoggerFromEnv()
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestZapLoggerWithRun(t *testing.T) {
	l, err := NewZapLogger(InfoLevel, true)
	require.NoError(t, err)

	scoped := l.WithRun("run-1", []string{"echo", "hi"})
	require.NotNil(t, scoped)
	assert.NotSame(t, l, scoped)
}

func TestZapLoggerWithErrorNil(t *testing.T) {
	l, err := NewZapLogger(InfoLevel, true)
	require.NoError(t, err)

	assert.Same(t, l, l.WithError(nil))
}
