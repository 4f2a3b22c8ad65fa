package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/filevault/internal/client/cache"
	"github.com/dmitrijs2005/filevault/internal/client/models"
)

// View is a consumer-scoped handle. Only the result of its most recent
// request is delivered, and nothing is delivered after Close.
type View struct {
	c Coordinator

	mu     sync.Mutex
	seq    uint64
	closed bool
}

// NewView returns an open view reading through c.
func NewView(c Coordinator) *View {
	return &View{c: c}
}

func (v *View) begin() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	return v.seq
}

func (v *View) current(n uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.closed && v.seq == n
}

// Close stops delivery of pending and future results. In-flight transfers
// keep running and still populate the caches.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}

func deliver[T any](v *View, n uint64, val T, err error) (T, error) {
	if !v.current(n) {
		var zero T
		return zero, ErrSuperseded
	}
	return val, err
}

func (v *View) Files(ctx context.Context) (*cache.FilePage, error) {
	n := v.begin()
	page, err := v.c.Files(ctx)
	return deliver(v, n, page, err)
}

func (v *View) Stats(ctx context.Context) (*models.StorageStats, error) {
	n := v.begin()
	st, err := v.c.Stats(ctx)
	return deliver(v, n, st, err)
}

// Apply runs a query transition and delivers its page.
func (v *View) Apply(ctx context.Context, transition func(ctx context.Context) (*cache.FilePage, error)) (*cache.FilePage, error) {
	n := v.begin()
	page, err := transition(ctx)
	return deliver(v, n, page, err)
}
