package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/filevault/internal/client/cache"
	"github.com/dmitrijs2005/filevault/internal/client/format"
	"github.com/dmitrijs2005/filevault/internal/client/models"
	"github.com/dmitrijs2005/filevault/internal/client/theme"
)

const minNameWidth = 12

// fixed columns other than the name take roughly this many cells
const fixedColumnsWidth = 56

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

func renderFilters(w io.Writer, pl theme.Palette, q models.QuerySpec) {
	var parts []string
	if q.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", q.Search))
	}
	if q.FileType != "" {
		parts = append(parts, "type="+q.FileType)
	}
	if q.MinSize != nil {
		parts = append(parts, "min="+format.FormatBytes(*q.MinSize))
	}
	if q.MaxSize != nil {
		parts = append(parts, "max="+format.FormatBytes(*q.MaxSize))
	}
	if !q.StartDate.IsZero() {
		parts = append(parts, "from="+q.StartDate.Format(models.DateLayout))
	}
	if !q.EndDate.IsZero() {
		parts = append(parts, "to="+q.EndDate.Format(models.DateLayout))
	}
	if q.SortField != models.SortNone {
		parts = append(parts, fmt.Sprintf("sort=%s %s", q.SortField, q.SortOrder))
	}
	if len(parts) == 0 {
		return
	}
	fmt.Fprintln(w, pl.Paint(pl.Muted, "filters: "+strings.Join(parts, ", ")))
}

// renderPage writes the listing table. status describes how current the
// data is; width is the terminal width or 0.
func renderPage(w io.Writer, pl theme.Palette, q models.QuerySpec, p *cache.FilePage, status cache.Status, width int) {
	renderFilters(w, pl, q)

	if p == nil || len(p.Items) == 0 {
		fmt.Fprintln(w, "No files found.")
	} else {
		nameWidth := 0
		if width > 0 {
			nameWidth = max(minNameWidth, width-fixedColumnsWidth)
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, pl.Paint(pl.Header, "ID\tNAME\tTYPE\tSIZE\tUPLOADED\tSTATUS"))
		for _, f := range p.Items {
			st := pl.Paint(pl.Unique, f.Status())
			if f.IsDuplicate {
				st = pl.Paint(pl.Duplicate, f.Status())
				if f.OriginalFile != nil {
					st += pl.Paint(pl.Muted, " of #"+strconv.FormatInt(*f.OriginalFile, 10))
				}
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				f.ID,
				truncate(f.Name, nameWidth),
				f.FileType,
				format.FormatBytes(f.Size),
				format.FormatDate(f.UploadDate),
				st,
			)
		}
		_ = tw.Flush()
	}

	if p == nil {
		return
	}
	footer := fmt.Sprintf("page %d of %d, %s", q.Page, max(1, p.PageCount), pluralize(p.TotalCount, "file"))
	if status != cache.Fresh {
		footer += " (" + status.String() + ")"
	}
	fmt.Fprintln(w, pl.Paint(pl.Muted, footer))
}

func renderStats(w io.Writer, pl theme.Palette, s *models.StorageStats, status cache.Status) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, pl.Paint(pl.Header, "Storage statistics"))
	fmt.Fprintf(tw, "Total files\t%s\n", format.FormatCount(s.TotalFiles))
	fmt.Fprintf(tw, "Unique files\t%s\n", format.FormatCount(s.UniqueFiles))
	fmt.Fprintf(tw, "Duplicate files\t%s\n", format.FormatCount(s.DuplicateFiles))
	fmt.Fprintf(tw, "Storage saved\t%s\n", format.FormatBytes(s.StorageSaved))
	_ = tw.Flush()
	if status != cache.Fresh {
		fmt.Fprintln(w, pl.Paint(pl.Muted, "("+status.String()+")"))
	}
}

func renderUploads(w io.Writer, pl theme.Palette, tasks []models.UploadTask) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No uploads.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, pl.Paint(pl.Header, "FILE\tSIZE\tDIGEST\tPROGRESS\tRESULT\tSTARTED"))
	for _, t := range tasks {
		result := t.Outcome()
		switch {
		case t.State == models.UploadFailed:
			result = pl.Paint(pl.Error, result)
		case t.Duplicate:
			result = pl.Paint(pl.Duplicate, result)
		case t.State == models.UploadSucceeded:
			result = pl.Paint(pl.Unique, result)
		}
		name := t.FileName
		if t.SameContentAs != "" {
			name += pl.Paint(pl.Muted, " (same as "+t.SameContentAs+")")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			name,
			format.FormatBytes(t.Size),
			t.ShortHash(),
			progressBar(t.Progress, 20),
			result,
			format.FormatAge(t.StartedAt),
		)
	}
	_ = tw.Flush()
}

func progressBar(pct, width int) string {
	pct = max(0, min(100, pct))
	filled := pct * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "] " + strconv.Itoa(pct) + "%"
}
