package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/client/cache"
	"github.com/dmitrijs2005/filevault/internal/client/client"
	"github.com/dmitrijs2005/filevault/internal/client/models"
	"github.com/dmitrijs2005/filevault/internal/client/services"
	"github.com/dmitrijs2005/filevault/internal/filex"
)

// openFile is a test seam for filex.Open.
var openFile = func(path string) (client.File, error) {
	f, err := filex.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// showPage renders the result of a listing request. When the request failed
// but an older copy is cached, that copy is shown with the reason of the last
// failed refresh instead of an error. Results a newer request has replaced
// are dropped.
func (a *App) showPage(p *cache.FilePage, err error) error {
	if errors.Is(err, services.ErrSuperseded) {
		return nil
	}
	q := a.sync.Query()
	pl := a.theme.Palette()
	if err != nil {
		cached, status, ok := a.sync.PeekFiles()
		if !ok {
			return err
		}
		renderPage(a.out, pl, q, cached, status, a.width())
		cause := a.sync.FilesError()
		if cause == nil {
			cause = err
		}
		fmt.Fprintln(a.out, pl.Paint(pl.Error, "showing cached copy, refresh failed: "+cause.Error()))
		return nil
	}
	_, status, _ := a.sync.PeekFiles()
	if status == cache.Absent || status == cache.Fetching {
		status = cache.Fresh
	}
	renderPage(a.out, pl, q, p, status, a.width())
	return nil
}

// apply runs a query transition through the REPL's view.
func (a *App) apply(ctx context.Context, transition func(ctx context.Context) (*cache.FilePage, error)) error {
	return a.showPage(a.view.Apply(ctx, transition))
}

func (a *App) List(ctx context.Context, _ []string) error {
	return a.showPage(a.view.Files(ctx))
}

func (a *App) applyFilters(ctx context.Context, mutate func(f *models.Filters)) error {
	f := a.sync.Query().Filters
	mutate(&f)
	return a.apply(ctx, func(ctx context.Context) (*cache.FilePage, error) {
		return a.sync.SetFilters(ctx, f)
	})
}

func (a *App) Search(ctx context.Context, args []string) error {
	return a.applyFilters(ctx, func(f *models.Filters) { f.Search = strings.Join(args, " ") })
}

func (a *App) Type(ctx context.Context, args []string) error {
	t := ""
	if len(args) > 0 && args[0] != "all" {
		t = strings.ToLower(strings.TrimPrefix(args[0], "."))
	}
	return a.applyFilters(ctx, func(f *models.Filters) { f.FileType = t })
}

func (a *App) Size(ctx context.Context, args []string) error {
	var lo, hi *int64
	var err error
	if len(args) > 0 {
		if lo, err = parseSize(args[0]); err != nil {
			return err
		}
	}
	if len(args) > 1 {
		if hi, err = parseSize(args[1]); err != nil {
			return err
		}
	}
	return a.applyFilters(ctx, func(f *models.Filters) {
		f.MinSize = lo
		f.MaxSize = hi
	})
}

func (a *App) Dates(ctx context.Context, args []string) error {
	var from, to = "-", "-"
	if len(args) > 0 {
		from = args[0]
	}
	if len(args) > 1 {
		to = args[1]
	}
	start, err := parseDate(from)
	if err != nil {
		return err
	}
	end, err := parseDate(to)
	if err != nil {
		return err
	}
	return a.applyFilters(ctx, func(f *models.Filters) {
		f.StartDate = start
		f.EndDate = end
	})
}

func (a *App) Sort(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("sort <name|type|size|date|duplicate>")
	}
	field, err := models.ParseSortField(args[0])
	if err != nil {
		return err
	}
	return a.apply(ctx, func(ctx context.Context) (*cache.FilePage, error) {
		return a.sync.SortBy(ctx, field)
	})
}

func (a *App) Page(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("page <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid page %q", args[0])
	}
	return a.apply(ctx, func(ctx context.Context) (*cache.FilePage, error) {
		return a.sync.SetPage(ctx, n)
	})
}

func (a *App) Next(ctx context.Context, _ []string) error {
	return a.apply(ctx, a.sync.NextPage)
}

func (a *App) Prev(ctx context.Context, _ []string) error {
	return a.apply(ctx, a.sync.PrevPage)
}

func (a *App) Reset(ctx context.Context, _ []string) error {
	return a.apply(ctx, a.sync.ResetFilters)
}

// Upload enqueues every path and returns at once. Outcomes are announced as
// each upload finishes.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("upload <path>...")
	}
	var errs []error
	for _, path := range args {
		f, err := openFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		h := a.sync.Upload(ctx, f)
		printlnFn(queuedMessage(f.Name(), a.sync.Uploads(), h.ID()))

		go func() {
			task, err := h.Wait(ctx)
			if err != nil {
				return
			}
			printlnFn(fmt.Sprintf("%s: %s", task.FileName, task.Outcome()))
		}()
	}
	return errors.Join(errs...)
}

// queuedMessage announces a new upload and points out content already
// uploaded earlier in the session.
func queuedMessage(name string, tasks []models.UploadTask, id string) string {
	for _, t := range tasks {
		if t.ClientID == id && t.SameContentAs != "" {
			return fmt.Sprintf("queued %s (same content as %s)", name, t.SameContentAs)
		}
	}
	return "queued " + name
}

func (a *App) Uploads(_ context.Context, _ []string) error {
	renderUploads(a.out, a.theme.Palette(), a.sync.Uploads())
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if !Confirm(a.input, fmt.Sprintf("Delete file %d?", id), a.out) {
		printlnFn("cancelled")
		return nil
	}
	if err := a.sync.Delete(ctx, id); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("deleted %d", id))
	return a.List(ctx, nil)
}

func (a *App) Download(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	dest := ""
	if len(args) > 1 {
		dest = args[1]
	}
	if dest == "" {
		dest = fmt.Sprintf("file-%d", id)
		if p, _, ok := a.sync.PeekFiles(); ok && p != nil {
			for _, rec := range p.Items {
				if rec.ID == id {
					dest = filepath.Base(rec.Name)
				}
			}
		}
	}

	if err := filex.EnsureParentDir(dest); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if err := a.sync.Download(ctx, id, out); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	printlnFn(fmt.Sprintf("saved %s", dest))
	return nil
}

func (a *App) Stats(ctx context.Context, _ []string) error {
	s, err := a.view.Stats(ctx)
	if errors.Is(err, services.ErrSuperseded) {
		return nil
	}
	if err != nil {
		cached, status, ok := a.sync.PeekStats()
		if ok && cached != nil {
			renderStats(a.out, a.theme.Palette(), cached, status)
		}
		return err
	}
	renderStats(a.out, a.theme.Palette(), s, cache.Fresh)
	return nil
}

func (a *App) Types(ctx context.Context, _ []string) error {
	types, err := a.sync.FileTypes(ctx)
	if err != nil {
		return err
	}
	if len(types) == 0 {
		printlnFn("No file types yet.")
		return nil
	}
	printlnFn(strings.Join(types, ", "))
	return nil
}

func (a *App) Theme(_ context.Context, _ []string) error {
	if a.theme.Toggle() {
		printlnFn("dark mode")
	} else {
		printlnFn("light mode")
	}
	return nil
}

func (a *App) Refresh(ctx context.Context, _ []string) error {
	if err := a.sync.Refresh(ctx); err != nil {
		return err
	}
	return a.List(ctx, nil)
}
