// Package config loads runtime configuration for the filevault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-t int      request timeout (seconds)
//	-i int      stats refresh interval (seconds)
//	-p int      page size
//	-d string   snapshot database path
//	-l string   log level
//	-dark       start in dark mode
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:8000/api",
//	  "request_timeout": "30s",
//	  "page_size": 10,
//	  "stats_refresh_interval": "10s",
//	  "upload_retention": "3s",
//	  "cache_ttl": "30s",
//	  "cache_max_entries": 50,
//	  "cache_db_path": "/home/me/.cache/filevault/cache.db",
//	  "log_level": "info",
//	  "dark_mode": false
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
