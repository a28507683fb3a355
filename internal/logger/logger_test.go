package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medadvance/loan-ledger/internal/config"
)

func TestNewLogger_Levels(t *testing.T) {
	testCases := []struct {
		configured   string
		debugEnabled bool
		warnEnabled  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, true},
		{"error", false, false},
		{"unknown", false, true}, // falls back to info
		{"", false, true},
	}

	for _, tc := range testCases {
		t.Run("Level_"+tc.configured, func(t *testing.T) {
			cfg := &config.Config{Logging: config.LoggingConfig{Level: tc.configured}}
			log := NewLogger(cfg)
			require.NotNil(t, log)

			ctx := context.Background()
			assert.Equal(t, tc.debugEnabled, log.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tc.warnEnabled, log.Enabled(ctx, slog.LevelWarn))
			assert.True(t, log.Enabled(ctx, slog.LevelError))
		})
	}
}

func TestNewLogger_CaseInsensitive(t *testing.T) {
	cfg := &config.Config{Logging: config.LoggingConfig{Level: "DEBUG"}}
	log := NewLogger(cfg)
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))
}
