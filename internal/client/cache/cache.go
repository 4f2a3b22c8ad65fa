package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/filevault/internal/client/client"
)

type Status int

const (
	Absent Status = iota
	Fresh
	Stale
	Fetching
)

func (s Status) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	case Fetching:
		return "fetching"
	default:
		return "absent"
	}
}

// FetchFunc loads the value for one key.
type FetchFunc[V any] func(ctx context.Context) (V, error)

type Options struct {
	// TTL after which a Fresh entry reads as Stale. Zero disables expiry.
	TTL time.Duration
	// MaxEntries bounds the number of entries; zero means unbounded.
	MaxEntries int
	// OnEvict is called, under no lock, with every key dropped for size.
	OnEvict func(key string)
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

type entry[V any] struct {
	value    V
	hasValue bool
	valueGen uint64

	gen      uint64
	fetching bool
	err      error

	fetchedAt time.Time
	lastUsed  time.Time
}

// Cache is safe for concurrent use.
type Cache[V any] struct {
	mu      sync.Mutex
	sf      singleflight.Group
	entries map[string]*entry[V]
	seq     uint64
	opts    Options
}

func New[V any](opts Options) *Cache[V] {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache[V]{entries: make(map[string]*entry[V]), opts: opts}
}

func (c *Cache[V]) nextGen() uint64 {
	c.seq++
	return c.seq
}

func (c *Cache[V]) statusLocked(e *entry[V]) Status {
	switch {
	case e == nil:
		return Absent
	case e.fetching:
		return Fetching
	case c.freshLocked(e):
		return Fresh
	default:
		return Stale
	}
}

func (c *Cache[V]) freshLocked(e *entry[V]) bool {
	if !e.hasValue || e.valueGen != e.gen {
		return false
	}
	if c.opts.TTL > 0 && c.opts.Now().Sub(e.fetchedAt) >= c.opts.TTL {
		return false
	}
	return true
}

// Get returns the cached value when Fresh, otherwise joins or starts the
// fetch for the entry's current generation and waits for it.
func (c *Cache[V]) Get(ctx context.Context, key string, fetch FetchFunc[V]) (V, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry[V]{gen: c.nextGen()}
		c.entries[key] = e
	}
	e.lastUsed = c.opts.Now()

	if c.freshLocked(e) {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}

	gen := e.gen
	e.fetching = true
	// Registering the flight under c.mu guarantees that no concurrent Get for
	// the same generation can miss it and start a second one.
	fctx := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(flightKey(key, gen), func() (any, error) {
		v, err := fetch(fctx)
		c.resolve(key, gen, v, err)
		return v, err
	})
	evicted := c.evictLocked(key)
	c.mu.Unlock()

	c.notifyEvicted(evicted)

	var zero V
	select {
	case r := <-ch:
		if r.Err != nil {
			return zero, fmt.Errorf("%w: %w", client.ErrFetch, r.Err)
		}
		v, _ := r.Val.(V)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func flightKey(key string, gen uint64) string {
	return key + "@" + strconv.FormatUint(gen, 10)
}

func (c *Cache[V]) resolve(key string, gen uint64, v V, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	if gen == e.gen {
		e.fetching = false
	}
	// a newer generation has already landed; neither the value nor the
	// failure of this flight applies any more
	if gen < e.valueGen {
		return
	}
	if err != nil {
		e.err = err
		return
	}
	e.value = v
	e.hasValue = true
	e.valueGen = gen
	e.fetchedAt = c.opts.Now()
	e.err = nil
}

// Peek returns the displayable value for key without fetching.
func (c *Cache[V]) Peek(key string) (V, Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, Absent, false
	}
	return e.value, c.statusLocked(e), e.hasValue
}

// LastError returns the error of the most recent failed fetch for key, if the
// entry has not been fetched successfully since.
func (c *Cache[V]) LastError(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		return e.err
	}
	return nil
}

// Prime seeds key with a Stale value, typically restored from a snapshot.
// Keys that already hold a value are left alone.
func (c *Cache[V]) Prime(key string, v V, fetchedAt time.Time) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && e.hasValue {
		c.mu.Unlock()
		return
	}
	if !ok {
		e = &entry[V]{}
		c.entries[key] = e
	}
	e.gen = c.nextGen()
	e.value = v
	e.hasValue = true
	e.valueGen = 0
	e.fetchedAt = fetchedAt
	e.lastUsed = c.opts.Now()
	evicted := c.evictLocked(key)
	c.mu.Unlock()

	c.notifyEvicted(evicted)
}

// Invalidate marks every entry whose key satisfies pred as Stale and returns
// how many were marked.
func (c *Cache[V]) Invalidate(pred func(key string) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.entries {
		if pred != nil && !pred(k) {
			continue
		}
		e.gen = c.nextGen()
		e.fetching = false
		n++
	}
	return n
}

func (c *Cache[V]) InvalidateAll() int {
	return c.Invalidate(nil)
}

// Keys returns the current keys in no particular order.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked drops least recently used entries beyond MaxEntries. Entries
// with a fetch in flight and keep are never evicted.
func (c *Cache[V]) evictLocked(keep string) []string {
	if c.opts.MaxEntries <= 0 {
		return nil
	}

	var evicted []string
	for len(c.entries) > c.opts.MaxEntries {
		var (
			victim string
			oldest time.Time
			found  bool
		)
		for k, e := range c.entries {
			if k == keep || e.fetching {
				continue
			}
			if !found || e.lastUsed.Before(oldest) {
				victim, oldest, found = k, e.lastUsed, true
			}
		}
		if !found {
			break
		}
		delete(c.entries, victim)
		evicted = append(evicted, victim)
	}
	return evicted
}

func (c *Cache[V]) notifyEvicted(keys []string) {
	if c.opts.OnEvict == nil {
		return
	}
	for _, k := range keys {
		c.opts.OnEvict(k)
	}
}
