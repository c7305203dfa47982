package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewRegistersAtDefaultLevel(t *testing.T) {
	logger := New("logging-test-default")
	require.NotNil(t, logger)
	assert.Equal(t, zapcore.InfoLevel, GetLeveler().GetLevel("logging-test-default"))
}

func TestSetLevelIsPerName(t *testing.T) {
	New("logging-test-a")
	New("logging-test-b")

	GetLeveler().SetLevel("logging-test-a", zapcore.DebugLevel)
	t.Cleanup(func() { GetLeveler().SetLevel("logging-test-a", zapcore.InfoLevel) })

	assert.Equal(t, zapcore.DebugLevel, GetLeveler().GetLevel("logging-test-a"))
	assert.Equal(t, zapcore.InfoLevel, GetLeveler().GetLevel("logging-test-b"))
}

func TestSetGlobalLevel(t *testing.T) {
	logger := New("logging-test-global")
	t.Cleanup(func() { require.NoError(t, SetGlobalLevel("info")) })

	require.NoError(t, SetGlobalLevel("warn"))
	assert.Equal(t, zapcore.WarnLevel, GetLeveler().GetLevel("logging-test-global"))
	assert.False(t, logger.Desugar().Core().Enabled(zapcore.InfoLevel))

	New("logging-test-late")
	assert.Equal(t, zapcore.WarnLevel, GetLeveler().GetLevel("logging-test-late"))

	assert.Error(t, SetGlobalLevel("loud"))
}
