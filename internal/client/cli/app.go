package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dmitrijs2005/filevault/internal/client/client"
	"github.com/dmitrijs2005/filevault/internal/client/config"
	"github.com/dmitrijs2005/filevault/internal/client/repositories/snapshots"
	"github.com/dmitrijs2005/filevault/internal/client/services"
	"github.com/dmitrijs2005/filevault/internal/client/theme"
	"github.com/dmitrijs2005/filevault/internal/logging"
)

// Terminal seams; tests replace them.
var (
	isTerminal = term.IsTerminal
	termSize   = term.GetSize
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	sync   services.Coordinator
	// view delivers list and stats results to the REPL.
	view   *services.View
	theme  *theme.Provider
	logger logging.Logger
	db     *sql.DB
	// input is shared by the REPL and prompts such as Confirm.
	input *bufio.Scanner
	out   io.Writer
	outFd int
	Mode  Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, c.LogLevel)

	var store services.SnapshotStore
	db, err := client.InitDatabase(ctx, c.CacheDBPath)
	if err != nil {
		logger.Warn(ctx, "snapshot database unavailable, continuing without it", "path", c.CacheDBPath, "error", err)
	} else {
		store = snapshots.NewStore(db, c.CacheMaxEntries)
	}

	api := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, logger.With("component", "http"))

	coord := services.NewCoordinator(api, services.Options{
		PageSize:      c.PageSize,
		StatsInterval: c.StatsRefreshInterval,
		Retention:     c.UploadRetention,
		CacheTTL:      c.CacheTTL,
		MaxEntries:    c.CacheMaxEntries,
		Snapshots:     store,
		Logger:        logger.With("component", "sync"),
	})

	outFd := int(os.Stdout.Fd())

	return &App{
		config: c,
		sync:   coord,
		view:   coord.NewView(),
		theme:  theme.New(c.DarkMode, isTerminal(outFd)),
		logger: logger,
		db:     db,
		input:  bufio.NewScanner(os.Stdin),
		out:    os.Stdout,
		outFd:  outFd,
		Mode:   ModeOnline,
	}, nil
}

// Run restores the previous session's views, starts the background stats
// refresh and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	if err := a.sync.Restore(ctx); err != nil {
		a.logger.Warn(ctx, "restore failed", "error", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.sync.Run(ctx)

	printlnFn("filevault CLI (type 'help' for commands)")
	_ = a.List(ctx, nil)

	runREPL(ctx, a, a.getStatus, a.input)
}

func (a *App) close() {
	a.view.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}

// getStatus is shown in the prompt: connectivity plus running uploads.
func (a *App) getStatus() string {
	if a.sync.Online() {
		a.setMode(ModeOnline)
	} else {
		a.setMode(ModeOffline)
	}
	status := string(a.Mode)

	if active := a.sync.ActiveUploads(); active > 0 {
		return status + ", " + pluralize(active, "upload")
	}
	return status
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.logger.Info(context.Background(), "switched mode", "mode", mode)
	}
}

// width is the terminal width, or 0 when output is not a terminal.
func (a *App) width() int {
	if !isTerminal(a.outFd) {
		return 0
	}
	w, _, err := termSize(a.outFd)
	if err != nil {
		return 0
	}
	return w
}
