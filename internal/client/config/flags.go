package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/filevault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the REST API (default from Config)
//	-t int      request timeout in seconds
//	-i int      stats refresh interval in seconds
//	-p int      page size
//	-d string   path of the local snapshot database
//	-l string   log level
//	-dark       start in dark mode
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-i", "-p", "-d", "-l", "-dark"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the REST API")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	statsInterval := fs.Int("i", int(cfg.StatsRefreshInterval.Seconds()), "stats refresh interval (in seconds)")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "rows per page")
	fs.StringVar(&cfg.CacheDBPath, "d", cfg.CacheDBPath, "path of the local snapshot database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.DarkMode, "dark", cfg.DarkMode, "start in dark mode")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.StatsRefreshInterval = time.Duration(*statsInterval) * time.Second
}
