package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsProd(t *testing.T) {
	assert.True(t, isProd("prod"))
	assert.True(t, isProd(" Production "))
	assert.False(t, isProd("dev"))
	assert.False(t, isProd(""))
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cinema.log")

	log, err := New("prod", path)
	require.NoError(t, err)
	log.Info("venue created")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"venue created"`)
}
