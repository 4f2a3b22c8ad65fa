package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the filevault CLI.
//
// Fields:
//   - ServerBaseURL: root of the REST API, e.g. "http://localhost:8000/api".
//   - RequestTimeout: per-request HTTP timeout.
//   - PageSize: rows per listing page.
//   - StatsRefreshInterval: how often storage statistics self-refresh.
//   - UploadRetention: how long finished uploads stay visible.
//   - CacheTTL: age after which a cached view is refetched on next read.
//   - CacheMaxEntries: number of cached listing pages kept in memory and on disk.
//   - CacheDBPath: SQLite file holding snapshots of the last good views.
//   - LogLevel: debug, info, warn or error.
//   - DarkMode: initial appearance.
type Config struct {
	ServerBaseURL        string
	RequestTimeout       time.Duration
	PageSize             int
	StatsRefreshInterval time.Duration
	UploadRetention      time.Duration
	CacheTTL             time.Duration
	CacheMaxEntries      int
	CacheDBPath          string
	LogLevel             string
	DarkMode             bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000/api"
	c.RequestTimeout = 30 * time.Second
	c.PageSize = 10
	c.StatsRefreshInterval = 10 * time.Second
	c.UploadRetention = 3 * time.Second
	c.CacheTTL = 30 * time.Second
	c.CacheMaxEntries = 50
	c.CacheDBPath = DefaultDBPath()
	c.LogLevel = "info"
	c.DarkMode = false
}

// DefaultDBPath is <user cache dir>/filevault/cache.db, or a file in the
// working directory when no cache dir is known.
func DefaultDBPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "filevault_cache.db"
	}
	return filepath.Join(dir, "filevault", "cache.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
