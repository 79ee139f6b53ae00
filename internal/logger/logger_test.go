package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tml-lang/tmlc/internal/logger"
)

func TestParseLevel(t *testing.T) {
	lvl, err := logger.ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, logger.LevelWarn, lvl)

	_, err = logger.ParseLevel("bogus")
	assert.Error(t, err)
}

func TestFilterWildcardDefault(t *testing.T) {
	f, err := logger.ParseFilter("parser=debug,*=warn")
	require.NoError(t, err)
	assert.True(t, f.Allows("parser", logger.LevelDebug))
	assert.False(t, f.Allows("codegen", logger.LevelInfo))
	assert.True(t, f.Allows("codegen", logger.LevelWarn))
}

func TestFilterPrefixMatching(t *testing.T) {
	f, err := logger.ParseFilter("codegen=trace")
	require.NoError(t, err)
	assert.True(t, f.Allows("codegen/llvmir", logger.LevelTrace))
}

func TestFilterEmptySpecDefaultsToInfo(t *testing.T) {
	f, err := logger.ParseFilter("")
	require.NoError(t, err)
	assert.False(t, f.Allows("anything", logger.LevelDebug))
	assert.True(t, f.Allows("anything", logger.LevelInfo))
}

func TestFilterRejectsMalformedEntry(t *testing.T) {
	_, err := logger.ParseFilter("nolevelhere")
	assert.Error(t, err)
}

func TestManagerRespectsModuleFilter(t *testing.T) {
	var buf bytes.Buffer
	mgr, err := logger.NewManager("quiet=error,*=info", logger.SinkConfig{
		Kind: logger.SinkJSON, Writer: &buf, Level: logger.LevelTrace,
	})
	require.NoError(t, err)

	mgr.For("quiet").Info("should not appear")
	mgr.For("loud").Info("should appear")
	require.NoError(t, mgr.Sync())

	out := buf.String()
	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "should appear")
}

func TestNullSinkDiscardsEverything(t *testing.T) {
	mgr, err := logger.NewManager("*=trace", logger.SinkConfig{Kind: logger.SinkNull})
	require.NoError(t, err)
	l := mgr.For("anything")
	l.Trace("t")
	l.Error("e")
	require.NoError(t, mgr.Sync())
}
