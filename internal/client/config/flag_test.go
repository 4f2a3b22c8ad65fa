package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", "http://files.local/api", "-i", "5", "-t", "7", "-p", "25", "-l", "debug", "-dark"}, expectPanic: false,
			expected: &Config{
				ServerBaseURL:        "http://files.local/api",
				StatsRefreshInterval: 5 * time.Second,
				RequestTimeout:       7 * time.Second,
				PageSize:             25,
				LogLevel:             "debug",
				DarkMode:             true,
			}},
		{name: "Test2 unrelated flags ignored", args: []string{"cmd", "-x", "1", "-d", "/tmp/c.db"}, expectPanic: false,
			expected: &Config{CacheDBPath: "/tmp/c.db"}},
		{name: "Test3 incorrect refresh interval", args: []string{"cmd", "-a", "http://files.local/api", "-i", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
