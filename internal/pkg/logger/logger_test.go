package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel("DEBUG")
	assert.True(t, ok)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	lvl, ok = ParseLevel("")
	assert.True(t, ok)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, ok = ParseLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, zapcore.InfoLevel, lvl)
}

func TestNew(t *testing.T) {
	z, err := New("warn", "")
	require.NoError(t, err)
	assert.False(t, z.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, z.Core().Enabled(zapcore.WarnLevel))
}
