package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/filevault/internal/client/cache"
	"github.com/dmitrijs2005/filevault/internal/client/client"
	"github.com/dmitrijs2005/filevault/internal/client/models"
	"github.com/dmitrijs2005/filevault/internal/client/query"
	"github.com/dmitrijs2005/filevault/internal/client/uploads"
	"github.com/dmitrijs2005/filevault/internal/logging"
)

const (
	statsKey = "stats"
	typesKey = "types"

	DefaultStatsInterval = 10 * time.Second
)

// ErrSuperseded is returned by a View for a result that is no longer wanted.
var ErrSuperseded = errors.New("result superseded")

type Coordinator interface {
	// Run refreshes storage stats every stats interval until ctx is done.
	Run(ctx context.Context)
	Online() bool

	Query() models.QuerySpec
	Files(ctx context.Context) (*cache.FilePage, error)
	PeekFiles() (*cache.FilePage, cache.Status, bool)
	// FilesError is the last fetch failure of the current page, if it has not
	// been fetched successfully since.
	FilesError() error
	Stats(ctx context.Context) (*models.StorageStats, error)
	PeekStats() (*models.StorageStats, cache.Status, bool)
	FileTypes(ctx context.Context) ([]string, error)

	SetFilters(ctx context.Context, f models.Filters) (*cache.FilePage, error)
	SortBy(ctx context.Context, field models.SortField) (*cache.FilePage, error)
	SetPage(ctx context.Context, n int) (*cache.FilePage, error)
	NextPage(ctx context.Context) (*cache.FilePage, error)
	PrevPage(ctx context.Context) (*cache.FilePage, error)
	ResetFilters(ctx context.Context) (*cache.FilePage, error)

	Upload(ctx context.Context, f client.File) *uploads.Handle
	Uploads() []models.UploadTask
	ActiveUploads() int
	WaitUploads()
	Delete(ctx context.Context, id int64) error
	Download(ctx context.Context, id int64, w io.Writer) error

	Refresh(ctx context.Context) error
	Restore(ctx context.Context) error

	NewView() *View
}

type Options struct {
	PageSize      int
	StatsInterval time.Duration
	Retention     time.Duration
	CacheTTL      time.Duration
	MaxEntries    int
	// Snapshots is optional.
	Snapshots SnapshotStore
	Logger    logging.Logger
}

type coordinator struct {
	client    client.Client
	state     *query.State
	files     *cache.Collection
	stats     *cache.Cache[*models.StorageStats]
	types     *cache.Cache[[]string]
	tracker   *uploads.Tracker
	snapshots SnapshotStore
	logger    logging.Logger

	statsInterval time.Duration
	online        atomic.Bool
}

func NewCoordinator(c client.Client, opts Options) Coordinator {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.StatsInterval <= 0 {
		opts.StatsInterval = DefaultStatsInterval
	}
	cacheOpts := cache.Options{TTL: opts.CacheTTL, MaxEntries: opts.MaxEntries}

	s := &coordinator{
		client:        c,
		state:         query.NewState(opts.PageSize),
		files:         cache.NewCollection(cacheOpts),
		stats:         cache.New[*models.StorageStats](cache.Options{TTL: opts.CacheTTL}),
		types:         cache.New[[]string](cache.Options{TTL: opts.CacheTTL}),
		snapshots:     opts.Snapshots,
		logger:        opts.Logger,
		statsInterval: opts.StatsInterval,
	}
	s.online.Store(true)
	s.tracker = uploads.NewTracker(c, uploads.Options{Retention: opts.Retention, Logger: opts.Logger})
	s.tracker.Subscribe(s)
	return s
}

func (s *coordinator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.stats.InvalidateAll()
			if _, err := s.Stats(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn(ctx, "stats refresh failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Online reports whether the last request reached the server.
func (s *coordinator) Online() bool {
	return s.online.Load()
}

func (s *coordinator) track(err error) {
	switch {
	case err == nil:
		s.online.Store(true)
	case errors.Is(err, client.ErrTransport):
		s.online.Store(false)
	}
}

func (s *coordinator) Query() models.QuerySpec {
	return s.state.Current()
}

func (s *coordinator) fetchPage(ctx context.Context, q models.QuerySpec) (*cache.FilePage, error) {
	page, err := s.client.ListFiles(ctx, q)
	s.track(err)
	if err != nil {
		return nil, err
	}
	s.saveFiles(ctx, q, page)
	return page, nil
}

// Files returns the current page. When the requested page lies beyond the
// last one (after deletes, or a filter that shrank the result), the query
// state is moved to the last existing page and that page is returned.
func (s *coordinator) Files(ctx context.Context) (*cache.FilePage, error) {
	q := s.state.Current()

	for attempt := 0; ; attempt++ {
		page, err := s.files.Get(ctx, q, s.fetchPage)

		target := 0
		switch {
		case err == nil && page.NeedsClamp(q.Page):
			target = page.ClampedPage()
		case errors.Is(err, client.ErrNotFound) && q.Page > 1:
			target = 1
		}
		if target == 0 || attempt > 0 {
			return page, err
		}

		requested := q.Page
		q = s.state.Update(func(x *models.QuerySpec) {
			if x.Page == requested {
				x.Page = target
			}
		})
		s.logger.Debug(ctx, "page clamped", "from", requested, "to", q.Page)
	}
}

func (s *coordinator) PeekFiles() (*cache.FilePage, cache.Status, bool) {
	return s.files.Peek(s.state.Current())
}

func (s *coordinator) FilesError() error {
	return s.files.LastError(s.state.Current())
}

func (s *coordinator) Stats(ctx context.Context) (*models.StorageStats, error) {
	return s.stats.Get(ctx, statsKey, func(ctx context.Context) (*models.StorageStats, error) {
		st, err := s.client.FetchStats(ctx)
		s.track(err)
		if err != nil {
			return nil, err
		}
		s.save(ctx, statsKey, kindStats, st)
		return st, nil
	})
}

func (s *coordinator) PeekStats() (*models.StorageStats, cache.Status, bool) {
	return s.stats.Peek(statsKey)
}

func (s *coordinator) FileTypes(ctx context.Context) ([]string, error) {
	return s.types.Get(ctx, typesKey, func(ctx context.Context) ([]string, error) {
		types, err := s.client.FetchFileTypes(ctx)
		s.track(err)
		if err != nil {
			return nil, err
		}
		s.save(ctx, typesKey, kindTypes, types)
		return types, nil
	})
}

func (s *coordinator) SetFilters(ctx context.Context, f models.Filters) (*cache.FilePage, error) {
	s.state.SetFilters(f)
	return s.Files(ctx)
}

func (s *coordinator) SortBy(ctx context.Context, field models.SortField) (*cache.FilePage, error) {
	s.state.SortBy(field)
	return s.Files(ctx)
}

func (s *coordinator) SetPage(ctx context.Context, n int) (*cache.FilePage, error) {
	s.state.SetPage(n)
	return s.Files(ctx)
}

func (s *coordinator) NextPage(ctx context.Context) (*cache.FilePage, error) {
	s.state.Update(func(q *models.QuerySpec) {
		if p, _, ok := s.files.Peek(*q); ok && p != nil && q.Page >= p.PageCount {
			return
		}
		q.Page++
	})
	return s.Files(ctx)
}

func (s *coordinator) PrevPage(ctx context.Context) (*cache.FilePage, error) {
	s.state.Update(func(q *models.QuerySpec) { q.Page = max(1, q.Page-1) })
	return s.Files(ctx)
}

func (s *coordinator) ResetFilters(ctx context.Context) (*cache.FilePage, error) {
	s.state.Reset()
	return s.Files(ctx)
}

// invalidateServerViews marks every view derived from the server's file set
// as stale.
func (s *coordinator) invalidateServerViews(ctx context.Context, reason string) {
	n := s.files.InvalidateAll()
	s.stats.InvalidateAll()
	s.types.InvalidateAll()
	s.logger.Debug(ctx, "views invalidated", "reason", reason, "pages", n)
}

func (s *coordinator) Upload(ctx context.Context, f client.File) *uploads.Handle {
	return s.tracker.Enqueue(ctx, f)
}

func (s *coordinator) Uploads() []models.UploadTask {
	return s.tracker.List()
}

func (s *coordinator) ActiveUploads() int {
	return s.tracker.Active()
}

func (s *coordinator) WaitUploads() {
	s.tracker.Wait()
}

// UploadProgress implements uploads.Observer.
func (s *coordinator) UploadProgress(models.UploadTask) {}

// UploadFinished implements uploads.Observer.
func (s *coordinator) UploadFinished(task models.UploadTask) {
	switch task.State {
	case models.UploadSucceeded:
		s.online.Store(true)
		s.invalidateServerViews(context.Background(), "upload")
	case models.UploadFailed:
		s.track(task.Err)
	}
}

func (s *coordinator) Delete(ctx context.Context, id int64) error {
	err := s.client.DeleteFile(ctx, id)
	s.track(err)
	if err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	s.invalidateServerViews(ctx, "delete")
	return nil
}

// Download streams the content of a record currently shown in any cached page.
func (s *coordinator) Download(ctx context.Context, id int64, w io.Writer) error {
	rec, ok := s.files.Find(id)
	if !ok {
		return fmt.Errorf("file %d is not in any loaded page: %w", id, client.ErrNotFound)
	}
	err := s.client.Download(ctx, rec, w)
	s.track(err)
	return err
}

// Refresh invalidates every view and refetches the current page, the stats
// and the file types concurrently.
func (s *coordinator) Refresh(ctx context.Context) error {
	s.invalidateServerViews(ctx, "refresh")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.Files(ctx)
		return err
	})
	g.Go(func() error {
		_, err := s.Stats(ctx)
		return err
	})
	g.Go(func() error {
		_, err := s.FileTypes(ctx)
		return err
	})
	return g.Wait()
}

func (s *coordinator) NewView() *View {
	return NewView(s)
}
