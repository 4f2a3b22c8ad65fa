package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"server_base_url":        "http://files.example/api",
		"stats_refresh_interval": "20s",
		"upload_retention":       5000000000,
		"cache_max_entries":      7,
		"dark_mode":              true,
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "http://files.example/api", cfg.ServerBaseURL)
		assert.Equal(t, 20*time.Second, cfg.StatsRefreshInterval)
		assert.Equal(t, 5*time.Second, cfg.UploadRetention)
		assert.Equal(t, 7, cfg.CacheMaxEntries)
		assert.True(t, cfg.DarkMode)
		// absent keys keep defaults
		assert.Equal(t, 10, cfg.PageSize)
		assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			ServerBaseURL:        "http://defaults/api",
			StatsRefreshInterval: 42 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "http://defaults/api", cfg.ServerBaseURL)
		assert.Equal(t, 42*time.Second, cfg.StatsRefreshInterval)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("invalid duration → panics", func(t *testing.T) {
		bad := writeTempJSON(t, dir, "dur.json", map[string]any{"cache_ttl": "soon"})

		os.Args = []string{"testbin", "-c", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
