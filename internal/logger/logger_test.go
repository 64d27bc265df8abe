package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"fatal": zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestFromContextFallback verifies the global logger is returned when the
// context carries none.
func TestFromContextFallback(t *testing.T) {
	t.Parallel()

	require.NotNil(t, FromContext(context.Background()))
}

// TestWithName verifies a named logger is attached to and recovered from the context.
func TestWithName(t *testing.T) {
	t.Parallel()

	ctx := WithName(context.Background(), "sdb-test")

	require.NotNil(t, FromContext(ctx))
	require.NotEqual(t, FromContext(context.Background()), FromContext(ctx))
}
