package uploads

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filevault/internal/client/client"
	"github.com/dmitrijs2005/filevault/internal/client/models"
	"github.com/dmitrijs2005/filevault/internal/logging"
)

const DefaultRetention = 3 * time.Second

// Uploader is the part of client.Client the tracker needs.
type Uploader interface {
	Upload(ctx context.Context, f client.File, progress client.ProgressFunc) (*models.FileRecord, error)
}

// Observer receives task snapshots. Callbacks run on the upload goroutine and
// must not block for long.
type Observer interface {
	UploadProgress(task models.UploadTask)
	UploadFinished(task models.UploadTask)
}

type Options struct {
	// Retention is how long terminal tasks stay listed. Zero means DefaultRetention,
	// a negative value removes them immediately.
	Retention time.Duration
	Logger    logging.Logger
	Now       func() time.Time
}

type Tracker struct {
	up        Uploader
	retention time.Duration
	logger    logging.Logger
	now       func() time.Time

	mu    sync.Mutex
	tasks map[string]*models.UploadTask
	order []string
	// seen maps content digests to the first file name enqueued with them.
	seen      map[string]string
	observers []Observer
	wg        sync.WaitGroup
}

func NewTracker(up Uploader, opts Options) *Tracker {
	if opts.Retention == 0 {
		opts.Retention = DefaultRetention
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Tracker{
		up:        up,
		retention: opts.Retention,
		logger:    opts.Logger,
		now:       opts.Now,
		tasks:     make(map[string]*models.UploadTask),
		seen:      make(map[string]string),
	}
}

// Subscribe registers o for all future task events.
func (t *Tracker) Subscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

// Handle is a future for one enqueued upload.
type Handle struct {
	id     string
	done   chan struct{}
	result models.UploadTask
}

func (h *Handle) ID() string { return h.id }

// Done is closed once the task reaches a terminal state.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the task is terminal and returns its final snapshot.
func (h *Handle) Wait(ctx context.Context) (models.UploadTask, error) {
	select {
	case <-h.done:
		return h.result, nil
	case <-ctx.Done():
		return models.UploadTask{}, ctx.Err()
	}
}

type hasher interface {
	Hash() string
}

// Enqueue registers a task for f and starts uploading it at once.
func (t *Tracker) Enqueue(ctx context.Context, f client.File) *Handle {
	task := &models.UploadTask{
		ClientID:    uuid.NewString(),
		FileName:    f.Name(),
		Size:        f.Size(),
		ContentType: f.ContentType(),
		State:       models.UploadQueued,
	}
	if h, ok := f.(hasher); ok {
		task.ContentHash = h.Hash()
	}

	h := &Handle{id: task.ClientID, done: make(chan struct{})}

	t.mu.Lock()
	if task.ContentHash != "" {
		if first, ok := t.seen[task.ContentHash]; ok {
			task.SameContentAs = first
		} else {
			t.seen[task.ContentHash] = task.FileName
		}
	}
	t.tasks[task.ClientID] = task
	t.order = append(t.order, task.ClientID)
	task.State = models.UploadUploading
	task.StartedAt = t.now()
	snap := *task
	observers := t.observersLocked()
	t.wg.Add(1)
	t.mu.Unlock()

	for _, o := range observers {
		o.UploadProgress(snap)
	}

	go t.run(ctx, f, h)
	return h
}

func (t *Tracker) run(ctx context.Context, f client.File, h *Handle) {
	defer t.wg.Done()
	defer close(h.done)

	log := t.logger.With("upload", h.id, "file", f.Name())

	rec, err := t.up.Upload(ctx, f, func(p int) { t.progress(h.id, p) })

	t.mu.Lock()
	task := t.tasks[h.id]
	task.FinishedAt = t.now()
	if err != nil {
		task.State = models.UploadFailed
		task.Err = err
		task.Failure = classify(err)
	} else {
		task.State = models.UploadSucceeded
		task.Progress = 100
		task.Record = rec
		task.Duplicate = rec != nil && rec.IsDuplicate
	}
	snap := *task
	observers := t.observersLocked()
	t.mu.Unlock()

	if snap.SameContentAs != "" {
		log.Debug(ctx, "content already uploaded this session", "first", snap.SameContentAs)
	}
	if err != nil {
		log.Warn(ctx, "upload failed", "kind", snap.Failure, "error", err)
	} else {
		log.Info(ctx, "upload finished", "duplicate", snap.Duplicate)
	}

	h.result = snap
	for _, o := range observers {
		o.UploadFinished(snap)
	}

	t.scheduleRemoval(h.id)
}

func (t *Tracker) progress(id string, p int) {
	t.mu.Lock()
	task, ok := t.tasks[id]
	if !ok || task.State.Terminal() || p <= task.Progress {
		t.mu.Unlock()
		return
	}
	task.Progress = min(p, 100)
	snap := *task
	observers := t.observersLocked()
	t.mu.Unlock()

	for _, o := range observers {
		o.UploadProgress(snap)
	}
}

func (t *Tracker) observersLocked() []Observer {
	return append([]Observer(nil), t.observers...)
}

func (t *Tracker) scheduleRemoval(id string) {
	if t.retention < 0 {
		t.remove(id)
		return
	}
	time.AfterFunc(t.retention, func() { t.remove(id) })
}

func (t *Tracker) remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.tasks, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func classify(err error) models.FailureKind {
	switch {
	case errors.Is(err, client.ErrValidation):
		return models.FailureValidation
	case errors.Is(err, client.ErrTransport):
		return models.FailureTransport
	case errors.Is(err, client.ErrRejected):
		return models.FailureRejected
	default:
		return models.FailureOther
	}
}

// Get returns a snapshot of the task with the given ClientID.
func (t *Tracker) Get(id string) (models.UploadTask, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[id]
	if !ok {
		return models.UploadTask{}, false
	}
	return *task, true
}

// List returns snapshots of all retained tasks in enqueue order.
func (t *Tracker) List() []models.UploadTask {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]models.UploadTask, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.tasks[id])
	}
	return out
}

// Active reports how many tasks are not yet terminal.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, task := range t.tasks {
		if !task.State.Terminal() {
			n++
		}
	}
	return n
}

// Wait blocks until every enqueued upload has finished.
func (t *Tracker) Wait() {
	t.wg.Wait()
}
