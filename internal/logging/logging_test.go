package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	for _, lvl := range []string{"", "debug", "INFO", "warn", "error"} {
		l, err := New(Config{Level: lvl, Format: "console"})
		require.NoError(t, err, lvl)
		require.NotNil(t, l)
	}
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
	_, err = New(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "storefront.log")
	l, err := New(Config{Level: "info", File: path})
	require.NoError(t, err)

	l.Info("hello from test")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello from test")
}
