// Package format renders sizes, dates and counts for display.
package format

import (
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatBytes renders n with a 1024 base and at most two decimals, trailing
// zeros trimmed: 0 -> "0 Bytes", 1024 -> "1 KB", 2621440 -> "2.5 MB".
// Sizes beyond the GB range stay in GB.
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	i, div := 0, int64(1)
	for i < len(byteUnits)-1 && n >= div*1024 {
		i++
		div *= 1024
	}

	v := float64(n) / float64(div)
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + byteUnits[i]
}

// DateLayout is the calendar date shown in listings.
const DateLayout = "1/2/2006"

// FormatDate renders the local calendar date of t.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(DateLayout)
}

// FormatAge renders t relative to now, e.g. "3 minutes ago".
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// FormatCount renders n with thousands separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}
