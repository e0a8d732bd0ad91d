package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewHonorsLevel(t *testing.T) {
	logger, err := New("debug")
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewFallsBackToInfo(t *testing.T) {
	for _, lvl := range []string{"", "loud"} {
		logger, err := New(lvl)
		require.NoError(t, err)
		require.False(t, logger.Core().Enabled(zapcore.DebugLevel), "level %q", lvl)
		require.True(t, logger.Core().Enabled(zapcore.InfoLevel), "level %q", lvl)
	}
}

func TestOrNop(t *testing.T) {
	require.NotNil(t, OrNop(nil))
}
