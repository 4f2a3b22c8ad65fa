package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/filevault/internal/client/models"
)

type FilePage = models.Page[models.FileRecord]

// Collection caches listing pages by QuerySpec. Two specs that are equal by
// value share one entry.
type Collection struct {
	pages *Cache[*FilePage]

	mu    sync.Mutex
	specs map[string]models.QuerySpec
}

func NewCollection(opts Options) *Collection {
	c := &Collection{specs: make(map[string]models.QuerySpec)}
	onEvict := opts.OnEvict
	opts.OnEvict = func(key string) {
		c.mu.Lock()
		delete(c.specs, key)
		c.mu.Unlock()
		if onEvict != nil {
			onEvict(key)
		}
	}
	c.pages = New[*FilePage](opts)
	return c
}

func (c *Collection) remember(q models.QuerySpec) string {
	key := q.Key()
	c.mu.Lock()
	c.specs[key] = q
	c.mu.Unlock()
	return key
}

// Get returns the page for q, fetching it with fetch unless Fresh.
func (c *Collection) Get(ctx context.Context, q models.QuerySpec, fetch func(ctx context.Context, q models.QuerySpec) (*FilePage, error)) (*FilePage, error) {
	key := c.remember(q)
	return c.pages.Get(ctx, key, func(ctx context.Context) (*FilePage, error) {
		return fetch(ctx, q)
	})
}

func (c *Collection) Peek(q models.QuerySpec) (*FilePage, Status, bool) {
	return c.pages.Peek(q.Key())
}

func (c *Collection) LastError(q models.QuerySpec) error {
	return c.pages.LastError(q.Key())
}

func (c *Collection) Prime(q models.QuerySpec, p *FilePage, fetchedAt time.Time) {
	c.pages.Prime(c.remember(q), p, fetchedAt)
}

// Invalidate marks every cached page whose spec satisfies pred as Stale.
func (c *Collection) Invalidate(pred func(q models.QuerySpec) bool) int {
	c.mu.Lock()
	specs := make(map[string]models.QuerySpec, len(c.specs))
	for k, q := range c.specs {
		specs[k] = q
	}
	c.mu.Unlock()

	return c.pages.Invalidate(func(key string) bool {
		q, ok := specs[key]
		return ok && pred(q)
	})
}

func (c *Collection) InvalidateAll() int {
	return c.pages.InvalidateAll()
}

// Find looks id up in every cached page.
func (c *Collection) Find(id int64) (models.FileRecord, bool) {
	for _, key := range c.pages.Keys() {
		p, _, ok := c.pages.Peek(key)
		if !ok || p == nil {
			continue
		}
		for _, rec := range p.Items {
			if rec.ID == id {
				return rec, true
			}
		}
	}
	return models.FileRecord{}, false
}

func (c *Collection) Len() int {
	return c.pages.Len()
}
