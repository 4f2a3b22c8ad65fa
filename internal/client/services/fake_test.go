package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/filevault/internal/client/client"
	"github.com/dmitrijs2005/filevault/internal/client/models"
)

// fakeServer is an in-memory backend that applies filters and pagination the
// way the real API does, and counts calls.
type fakeServer struct {
	client.Client

	mu      sync.Mutex
	records []models.FileRecord
	nextID  int64

	listCalls  atomic.Int64
	statsCalls atomic.Int64
	typesCalls atomic.Int64

	// listGate, when set, blocks ListFiles until closed.
	listGate chan struct{}
	listErr  error
	statsErr error
}

func newFakeServer() *fakeServer {
	return &fakeServer{nextID: 1}
}

func (f *fakeServer) add(name, fileType string, size int64) models.FileRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := models.FileRecord{
		ID:         f.nextID,
		Name:       name,
		FileURL:    "/media/" + name,
		FileType:   fileType,
		Size:       size,
		UploadDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Hour),
	}
	f.nextID++
	f.records = append(f.records, rec)
	return rec
}

func (f *fakeServer) Upload(ctx context.Context, file client.File, progress client.ProgressFunc) (*models.FileRecord, error) {
	if err := client.Validate(file); err != nil {
		return nil, err
	}
	if progress != nil {
		progress(100)
	}
	ext := file.Name()[strings.LastIndex(file.Name(), ".")+1:]
	rec := f.add(file.Name(), ext, file.Size())
	return &rec, nil
}

func (f *fakeServer) ListFiles(ctx context.Context, q models.QuerySpec) (*models.Page[models.FileRecord], error) {
	f.listCalls.Add(1)
	if f.listGate != nil {
		select {
		case <-f.listGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.listErr != nil {
		return nil, f.listErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.FileRecord
	for _, r := range f.records {
		if q.Search != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(q.Search)) {
			continue
		}
		if q.FileType != "" && r.FileType != q.FileType {
			continue
		}
		if q.MinSize != nil && r.Size < *q.MinSize {
			continue
		}
		if q.MaxSize != nil && r.Size > *q.MaxSize {
			continue
		}
		matched = append(matched, r)
	}
	if q.SortField == models.SortSize {
		sort.SliceStable(matched, func(i, j int) bool {
			if q.SortOrder == models.Descending {
				return matched[i].Size > matched[j].Size
			}
			return matched[i].Size < matched[j].Size
		})
	}

	total := len(matched)
	start := (q.Page - 1) * q.PageSize
	end := min(start+q.PageSize, total)
	items := []models.FileRecord{}
	if start < total {
		items = append(items, matched[start:end]...)
	}
	return &models.Page[models.FileRecord]{
		Items:       items,
		TotalCount:  total,
		PageCount:   models.PageCount(total, q.PageSize),
		CurrentPage: q.Page,
	}, nil
}

func (f *fakeServer) DeleteFile(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return client.ErrNotFound
}

func (f *fakeServer) FetchStats(ctx context.Context) (*models.StorageStats, error) {
	f.statsCalls.Add(1)
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.records))
	return &models.StorageStats{TotalFiles: n, UniqueFiles: n}, nil
}

func (f *fakeServer) FetchFileTypes(ctx context.Context) ([]string, error) {
	f.typesCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, r := range f.records {
		if !seen[r.FileType] {
			seen[r.FileType] = true
			out = append(out, r.FileType)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeServer) Download(ctx context.Context, rec models.FileRecord, w io.Writer) error {
	_, err := io.WriteString(w, "content of "+rec.Name)
	return err
}

type memFile struct {
	name, ct string
	size     int64
}

func (m memFile) Name() string        { return m.name }
func (m memFile) Size() int64         { return m.size }
func (m memFile) ContentType() string { return m.ct }
func (m memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(strings.Repeat("x", int(min(m.size, 64))))), nil
}
