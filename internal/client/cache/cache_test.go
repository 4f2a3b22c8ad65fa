package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filevault/internal/client/client"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// gatedFetch blocks each call until a value is sent on release.
type gatedFetch struct {
	calls   atomic.Int64
	started chan struct{}
	release chan string
}

func newGatedFetch() *gatedFetch {
	return &gatedFetch{started: make(chan struct{}, 16), release: make(chan string)}
}

func (g *gatedFetch) fetch(ctx context.Context) (string, error) {
	g.calls.Add(1)
	g.started <- struct{}{}
	return <-g.release, nil
}

func constFetch(v string, calls *atomic.Int64) FetchFunc[string] {
	return func(ctx context.Context) (string, error) {
		calls.Add(1)
		return v, nil
	}
}

func TestGet_FreshServedFromMemory(t *testing.T) {
	c := New[string](Options{})
	var calls atomic.Int64
	ctx := context.Background()

	v, err := c.Get(ctx, "k", constFetch("a", &calls))
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = c.Get(ctx, "k", constFetch("b", &calls))
	require.NoError(t, err)
	assert.Equal(t, "a", v)
	assert.Equal(t, int64(1), calls.Load())

	_, st, ok := c.Peek("k")
	assert.True(t, ok)
	assert.Equal(t, Fresh, st)
}

func TestGet_ConcurrentCallersShareOneFetch(t *testing.T) {
	c := New[string](Options{})
	g := newGatedFetch()
	ctx := context.Background()

	const n = 8
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(ctx, "k", g.fetch)
			assert.NoError(t, err)
			results <- v
		}()
	}

	<-g.started
	_, st, _ := c.Peek("k")
	assert.Equal(t, Fetching, st)

	time.Sleep(20 * time.Millisecond)
	g.release <- "v"
	wg.Wait()
	close(results)

	for v := range results {
		assert.Equal(t, "v", v)
	}
	assert.Equal(t, int64(1), g.calls.Load())
}

func TestGet_WaiterCancellationDoesNotCancelFetch(t *testing.T) {
	c := New[string](Options{})
	fetchCtxErr := make(chan error, 1)
	release := make(chan struct{})
	started := make(chan struct{})

	fetch := func(ctx context.Context) (string, error) {
		close(started)
		<-release
		fetchCtxErr <- ctx.Err()
		return "done", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "k", fetch)
		errCh <- err
	}()

	<-started
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	close(release)
	require.NoError(t, <-fetchCtxErr)

	require.Eventually(t, func() bool {
		_, st, _ := c.Peek("k")
		return st == Fresh
	}, time.Second, 5*time.Millisecond)
}

func TestGet_FailureKeepsLastValue(t *testing.T) {
	c := New[string](Options{})
	ctx := context.Background()
	var calls atomic.Int64

	_, err := c.Get(ctx, "k", constFetch("good", &calls))
	require.NoError(t, err)
	c.InvalidateAll()

	boom := errors.New("boom")
	_, err = c.Get(ctx, "k", func(context.Context) (string, error) { return "", boom })
	require.ErrorIs(t, err, client.ErrFetch)
	require.ErrorIs(t, err, boom)

	v, st, ok := c.Peek("k")
	assert.True(t, ok)
	assert.Equal(t, "good", v)
	assert.Equal(t, Stale, st)
	assert.ErrorIs(t, c.LastError("k"), boom)

	_, err = c.Get(ctx, "k", constFetch("again", &calls))
	require.NoError(t, err)
	assert.NoError(t, c.LastError("k"))
}

func TestInvalidate_DuringFetchNeverMarksFresh(t *testing.T) {
	c := New[string](Options{})
	g := newGatedFetch()
	ctx := context.Background()

	done := make(chan string, 1)
	go func() {
		v, _ := c.Get(ctx, "k", g.fetch)
		done <- v
	}()
	<-g.started

	assert.Equal(t, 1, c.InvalidateAll())
	_, st, _ := c.Peek("k")
	assert.Equal(t, Stale, st)

	g.release <- "old"
	assert.Equal(t, "old", <-done)

	v, st, ok := c.Peek("k")
	assert.True(t, ok)
	assert.Equal(t, "old", v)
	assert.Equal(t, Stale, st, "a flight started before invalidation must not mark the entry fresh")

	var calls atomic.Int64
	v, err := c.Get(ctx, "k", constFetch("new", &calls))
	require.NoError(t, err)
	assert.Equal(t, "new", v)
	assert.Equal(t, int64(1), calls.Load())
}

func TestInvalidate_NewerGenerationWins(t *testing.T) {
	c := New[string](Options{})
	ctx := context.Background()
	older := newGatedFetch()
	newer := newGatedFetch()

	oldDone := make(chan struct{})
	go func() {
		_, _ = c.Get(ctx, "k", older.fetch)
		close(oldDone)
	}()
	<-older.started

	c.InvalidateAll()

	newDone := make(chan string, 1)
	go func() {
		v, _ := c.Get(ctx, "k", newer.fetch)
		newDone <- v
	}()
	<-newer.started

	newer.release <- "new"
	assert.Equal(t, "new", <-newDone)

	older.release <- "old"
	<-oldDone

	v, st, _ := c.Peek("k")
	assert.Equal(t, "new", v)
	assert.Equal(t, Fresh, st)
}

func TestInvalidate_OlderFailureDoesNotTouchNewerValue(t *testing.T) {
	c := New[string](Options{})
	ctx := context.Background()

	started := make(chan struct{})
	fail := make(chan struct{})
	oldDone := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "k", func(ctx context.Context) (string, error) {
			close(started)
			<-fail
			return "", errors.New("old flight failed")
		})
		oldDone <- err
	}()
	<-started

	c.InvalidateAll()

	var calls atomic.Int64
	v, err := c.Get(ctx, "k", constFetch("42", &calls))
	require.NoError(t, err)
	assert.Equal(t, "42", v)

	close(fail)
	require.Error(t, <-oldDone)

	v, st, ok := c.Peek("k")
	assert.True(t, ok)
	assert.Equal(t, "42", v)
	assert.Equal(t, Fresh, st)
	assert.NoError(t, c.LastError("k"))
}

func TestInvalidate_Predicate(t *testing.T) {
	c := New[string](Options{})
	ctx := context.Background()
	var calls atomic.Int64

	for _, k := range []string{"a1", "a2", "b1"} {
		_, err := c.Get(ctx, k, constFetch(k, &calls))
		require.NoError(t, err)
	}

	n := c.Invalidate(func(k string) bool { return k[0] == 'a' })
	assert.Equal(t, 2, n)

	_, st, _ := c.Peek("a1")
	assert.Equal(t, Stale, st)
	_, st, _ = c.Peek("b1")
	assert.Equal(t, Fresh, st)
}

func TestTTL_ExpiresFreshEntries(t *testing.T) {
	clk := newFakeClock()
	c := New[string](Options{TTL: 30 * time.Second, Now: clk.Now})
	ctx := context.Background()
	var calls atomic.Int64

	_, err := c.Get(ctx, "k", constFetch("a", &calls))
	require.NoError(t, err)

	clk.Advance(29 * time.Second)
	_, st, _ := c.Peek("k")
	assert.Equal(t, Fresh, st)

	clk.Advance(time.Second)
	_, st, _ = c.Peek("k")
	assert.Equal(t, Stale, st)

	_, err = c.Get(ctx, "k", constFetch("b", &calls))
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestEviction_LRU(t *testing.T) {
	clk := newFakeClock()
	var evicted []string
	c := New[string](Options{MaxEntries: 2, Now: clk.Now, OnEvict: func(k string) { evicted = append(evicted, k) }})
	ctx := context.Background()
	var calls atomic.Int64

	_, _ = c.Get(ctx, "a", constFetch("a", &calls))
	clk.Advance(time.Second)
	_, _ = c.Get(ctx, "b", constFetch("b", &calls))
	clk.Advance(time.Second)
	_, _ = c.Get(ctx, "a", constFetch("a", &calls))
	clk.Advance(time.Second)
	_, _ = c.Get(ctx, "c", constFetch("c", &calls))

	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, 2, c.Len())
	_, st, _ := c.Peek("b")
	assert.Equal(t, Absent, st)
}

func TestPrime_SeedsStaleValue(t *testing.T) {
	c := New[string](Options{})
	ctx := context.Background()
	var calls atomic.Int64

	c.Prime("k", "snap", time.Now().Add(-time.Hour))
	v, st, ok := c.Peek("k")
	assert.True(t, ok)
	assert.Equal(t, "snap", v)
	assert.Equal(t, Stale, st)

	v, err := c.Get(ctx, "k", constFetch("live", &calls))
	require.NoError(t, err)
	assert.Equal(t, "live", v)

	c.Prime("k", "older snap", time.Now())
	v, _, _ = c.Peek("k")
	assert.Equal(t, "live", v, "prime never replaces a fetched value")
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "fresh", Fresh.String())
	assert.Equal(t, "stale", Stale.String())
	assert.Equal(t, "fetching", Fetching.String())
	assert.Equal(t, "absent", Absent.String())
}
