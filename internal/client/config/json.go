package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/filevault/internal/flagx"
	"github.com/dmitrijs2005/filevault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "10s" or as integer nanoseconds. After parsing, values
// that are present are copied into the runtime Config.
type JsonConfig struct {
	ServerBaseURL        string          `json:"server_base_url"`
	RequestTimeout       *timex.Duration `json:"request_timeout"`
	PageSize             int             `json:"page_size"`
	StatsRefreshInterval *timex.Duration `json:"stats_refresh_interval"`
	UploadRetention      *timex.Duration `json:"upload_retention"`
	CacheTTL             *timex.Duration `json:"cache_ttl"`
	CacheMaxEntries      int             `json:"cache_max_entries"`
	CacheDBPath          string          `json:"cache_db_path"`
	LogLevel             string          `json:"log_level"`
	DarkMode             *bool           `json:"dark_mode"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flag; without one nothing is
// loaded. Absent keys leave the corresponding Config field untouched.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.StatsRefreshInterval != nil {
		cfg.StatsRefreshInterval = jc.StatsRefreshInterval.Duration
	}
	if jc.UploadRetention != nil {
		cfg.UploadRetention = jc.UploadRetention.Duration
	}
	if jc.CacheTTL != nil {
		cfg.CacheTTL = jc.CacheTTL.Duration
	}
	if jc.CacheMaxEntries > 0 {
		cfg.CacheMaxEntries = jc.CacheMaxEntries
	}
	if jc.CacheDBPath != "" {
		cfg.CacheDBPath = jc.CacheDBPath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.DarkMode != nil {
		cfg.DarkMode = *jc.DarkMode
	}
}
