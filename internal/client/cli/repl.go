package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Type(ctx context.Context, args []string) error
	Size(ctx context.Context, args []string) error
	Dates(ctx context.Context, args []string) error
	Sort(ctx context.Context, args []string) error
	Page(ctx context.Context, args []string) error
	Next(ctx context.Context, args []string) error
	Prev(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Uploads(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Types(ctx context.Context, args []string) error
	Theme(ctx context.Context, args []string) error
	Refresh(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  (l)ist                       show the current page
  search [text]                filter by name substring (no text clears)
  type [ext|all]               filter by file type
  size [min|-] [max|-]         filter by size, e.g. "size 1MB -"
  dates [from|-] [to|-]        filter by upload date (YYYY-MM-DD)
  sort <field>                 name, type, size, date, duplicate; again to flip
  page <n>, (n)ext, (p)rev     paginate
  reset                        clear all filters
  upload <path>...             upload files concurrently
  uploads                      show upload progress
  delete <id>                  delete a file
  download <id> [path]         save a file locally
  stats                        storage statistics
  types                        known file types
  theme                        toggle light/dark
  refresh                      refetch everything
  exit | quit                  leave the program`

// runREPL starts a simple read–eval–print loop for the filevault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a' with the remaining tokens as
// arguments. Unknown commands are reported back to the user. The loop exits
// on scanner EOF, on context cancellation, or when the user types "exit" or
// "quit".
//
// Errors returned by command handlers are printed and otherwise ignored. This
// keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	commands := map[string]func(context.Context, []string) error{
		"l":        a.List,
		"list":     a.List,
		"search":   a.Search,
		"type":     a.Type,
		"size":     a.Size,
		"dates":    a.Dates,
		"sort":     a.Sort,
		"page":     a.Page,
		"n":        a.Next,
		"next":     a.Next,
		"p":        a.Prev,
		"prev":     a.Prev,
		"reset":    a.Reset,
		"upload":   a.Upload,
		"uploads":  a.Uploads,
		"delete":   a.Delete,
		"download": a.Download,
		"stats":    a.Stats,
		"types":    a.Types,
		"theme":    a.Theme,
		"refresh":  a.Refresh,
	}

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("fv %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		fn, ok := commands[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if err := fn(ctx, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}
