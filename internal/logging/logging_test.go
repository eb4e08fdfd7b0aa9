package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_ValidCombinations(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		for _, format := range []string{"console", "json"} {
			logger, err := New(level, format)
			require.NoError(t, err, "level=%s format=%s", level, format)
			require.NotNil(t, logger)
		}
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("verbose", "console")
	require.Error(t, err)
}

func TestNew_InvalidFormat(t *testing.T) {
	_, err := New("info", "xml")
	require.Error(t, err)
}

func TestNew_LevelFiltering(t *testing.T) {
	logger, err := New("warn", "json")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestLevelFromString(t *testing.T) {
	lvl, err := LevelFromString("debug")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	_, err = LevelFromString("nope")
	require.Error(t, err)
}

func TestSync_IgnoresStderrSyncError(t *testing.T) {
	logger, err := New("info", "console")
	require.NoError(t, err)
	logger.Info("flush me")
	assert.NoError(t, Sync(logger))
}
