//go:build unit

package log

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"ERROR", LevelError},
		{"Info", LevelInfo},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "unknown", Level(42).String())
}

func TestFieldConstructors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Field{Key: "k", Value: "v"}, String("k", "v"))
	assert.Equal(t, Field{Key: "n", Value: 3}, Int("n", 3))
	assert.Equal(t, Field{Key: "on", Value: true}, Bool("on", true))
	assert.Equal(t, Field{Key: "x", Value: 1.5}, Any("x", 1.5))

	err := errors.New("boom")
	assert.Equal(t, Field{Key: "error", Value: err}, Err(err))
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NewNop()
	logger.Log(context.Background(), LevelError, "dropped", String("k", "v"))

	assert.Same(t, logger, logger.With(String("k", "v")))
	assert.False(t, logger.Enabled(LevelError))
	assert.NoError(t, logger.Sync(context.Background()))
}
