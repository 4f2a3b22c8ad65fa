package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/filevault/internal/client/models"
)

var errUsage = errors.New("usage")

func usage(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}

// parseSize accepts "-" for absent, plain byte counts and humanized sizes
// such as "1.5MB" or "200 KiB".
func parseSize(s string) (*int64, error) {
	if s == "-" {
		return nil, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return nil, fmt.Errorf("invalid size %q: %w", s, err)
	}
	v := int64(n)
	return &v, nil
}

// parseDate accepts "-" for absent and YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	if s == "-" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(models.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, usage("missing file id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid file id %q", args[0])
	}
	return id, nil
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
