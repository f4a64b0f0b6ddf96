package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		wantEnabled slog.Level
		wantMuted   slog.Level
	}{
		{
			name:        "debug enables everything",
			level:       "debug",
			wantEnabled: slog.LevelDebug,
			wantMuted:   slog.Level(-100),
		},
		{
			name:        "warn mutes info",
			level:       "warn",
			wantEnabled: slog.LevelWarn,
			wantMuted:   slog.LevelInfo,
		},
		{
			name:        "error mutes warn",
			level:       "ERROR",
			wantEnabled: slog.LevelError,
			wantMuted:   slog.LevelWarn,
		},
		{
			name:        "unknown falls back to info",
			level:       "chatty",
			wantEnabled: slog.LevelInfo,
			wantMuted:   slog.LevelDebug,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			original := slog.Default()
			defer slog.SetDefault(original)

			logger := Setup(tc.level)
			require.NotNil(t, logger)

			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tc.wantEnabled))
			assert.False(t, logger.Enabled(ctx, tc.wantMuted))
		})
	}
}

func TestSetupEmitsJSON(t *testing.T) {
	logBuf, logger, cleanup := SetupTestLogger(t, nil)
	defer cleanup()

	logger.Info("review recorded", slog.String("word", "Haus"), slog.Int("xp", 5))

	entries, err := logBuf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "review recorded", entries[0]["msg"])
	assert.Equal(t, "Haus", entries[0]["word"])
	assert.Equal(t, float64(5), entries[0]["xp"])
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	base := slog.New(slog.NewJSONHandler(&TestLogBuffer{}, nil))

	t.Run("returns stored logger", func(t *testing.T) {
		t.Parallel()

		ctx := WithLogger(context.Background(), base)
		assert.Same(t, base, FromContext(ctx))
	})

	t.Run("falls back to default when absent", func(t *testing.T) {
		t.Parallel()

		assert.Same(t, slog.Default(), FromContext(context.Background()))
	})
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	stored := slog.New(slog.NewJSONHandler(&TestLogBuffer{}, nil))
	fallback := slog.New(slog.NewJSONHandler(&TestLogBuffer{}, nil))

	t.Run("prefers context logger", func(t *testing.T) {
		t.Parallel()

		ctx := WithLogger(context.Background(), stored)
		assert.Same(t, stored, FromContextOrDefault(ctx, fallback))
	})

	t.Run("uses fallback when context empty", func(t *testing.T) {
		t.Parallel()

		assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("nil fallback yields default", func(t *testing.T) {
		t.Parallel()

		assert.Same(t, slog.Default(), FromContextOrDefault(context.Background(), nil))
	})
}
