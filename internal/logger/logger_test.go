package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerStdoutOnly(t *testing.T) {
	l, err := NewLogger(Config{LogLevel: Info})
	require.NoError(t, err)
	assert.Nil(t, l.rotator)
	require.NoError(t, l.Close())
}

func TestNewLoggerWithRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "editcap.log")

	l, err := NewLogger(Config{LogLevel: Debug, LogFile: path, MaxSize: 10, MaxBackups: 2})
	require.NoError(t, err)
	require.NotNil(t, l.rotator)

	l.Info("hello %s", "world")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello world")
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug": Debug,
		"INFO":  Info,
		"warn":  Warn,
		"ERROR": Error,
	}
	for in, want := range cases {
		got, err := ParseLogLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseLogLevel("bogus")
	assert.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filtered.log")
	l, err := NewLogger(Config{LogLevel: Warn, LogFile: path})
	require.NoError(t, err)

	l.Debug("should not appear")
	l.Info("also hidden")
	l.Warn("visible warning")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "should not appear")
	assert.NotContains(t, string(data), "also hidden")
	assert.Contains(t, string(data), "visible warning")
}
