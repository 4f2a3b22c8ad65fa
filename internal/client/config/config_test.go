package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8000/api", c.ServerBaseURL)
	assert.Equal(t, 10, c.PageSize)
	assert.Equal(t, 10*time.Second, c.StatsRefreshInterval)
	assert.Equal(t, 3*time.Second, c.UploadRetention)
	assert.Equal(t, 50, c.CacheMaxEntries)
	assert.Equal(t, DefaultDBPath(), c.CacheDBPath)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.DarkMode)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:8000/api", cfg.ServerBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.StatsRefreshInterval)
}
