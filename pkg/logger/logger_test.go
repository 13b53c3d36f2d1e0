package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_BeforeInitIsNop(t *testing.T) {
	globalLogger = nil
	assert.NotNil(t, Get())
	assert.NoError(t, Sync())
}

func TestInit_Levels(t *testing.T) {
	t.Cleanup(func() { globalLogger = nil })

	require.NoError(t, Init("debug", "production"))
	assert.True(t, Get().Core().Enabled(-1))

	require.NoError(t, Init("bogus", "development"))
	assert.False(t, Get().Core().Enabled(-1))
	assert.True(t, Get().Core().Enabled(0))
	assert.NotNil(t, Named("collector"))
}
