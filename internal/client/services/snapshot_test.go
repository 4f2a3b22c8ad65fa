package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filevault/internal/client/cache"
	"github.com/dmitrijs2005/filevault/internal/client/client"
	"github.com/dmitrijs2005/filevault/internal/client/models"
	"github.com/dmitrijs2005/filevault/internal/client/repositories/snapshots"
)

func newStore(t *testing.T) *snapshots.Store {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return snapshots.NewStore(db, 10)
}

func TestSnapshots_RestoreAcrossSessions(t *testing.T) {
	store := newStore(t)
	srv := newFakeServer()
	seed(srv, 12, "pdf")
	ctx := context.Background()

	first := NewCoordinator(srv, Options{PageSize: 10, Snapshots: store})
	_, err := first.SetFilters(ctx, models.Filters{FileType: "pdf", MinSize: models.Int64(0)})
	require.NoError(t, err)
	_, err = first.Stats(ctx)
	require.NoError(t, err)
	_, err = first.FileTypes(ctx)
	require.NoError(t, err)

	second := NewCoordinator(srv, Options{PageSize: 10, Snapshots: store}).(*coordinator)
	require.NoError(t, second.Restore(ctx))

	q := models.NewQuerySpec(10)
	q.FileType = "pdf"
	q.MinSize = models.Int64(0)
	page, st, ok := second.files.Peek(q)
	require.True(t, ok)
	assert.Equal(t, cache.Stale, st)
	assert.Equal(t, 12, page.TotalCount)

	stats, st, ok := second.PeekStats()
	require.True(t, ok)
	assert.Equal(t, cache.Stale, st)
	assert.Equal(t, int64(12), stats.TotalFiles)

	types, _, ok := second.types.Peek(typesKey)
	require.True(t, ok)
	assert.Equal(t, []string{"pdf"}, types)

	// restored data is displayable but the next read still hits the server
	before := srv.listCalls.Load()
	_, err = second.SetFilters(ctx, models.Filters{FileType: "pdf", MinSize: models.Int64(0)})
	require.NoError(t, err)
	assert.Equal(t, before+1, srv.listCalls.Load())
}

type failingStore struct{}

func (failingStore) Put(context.Context, snapshots.Snapshot) error {
	return assert.AnError
}

func (failingStore) ListKind(context.Context, string) ([]snapshots.Snapshot, error) {
	return nil, assert.AnError
}

func TestSnapshots_SaveFailureIsBestEffort(t *testing.T) {
	srv := newFakeServer()
	seed(srv, 1, "pdf")
	c := NewCoordinator(srv, Options{PageSize: 10, Snapshots: failingStore{}, StatsInterval: time.Hour})
	ctx := context.Background()

	page, err := c.Files(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)

	require.ErrorIs(t, c.Restore(ctx), assert.AnError)
}

func TestSnapshots_NilStore(t *testing.T) {
	c := NewCoordinator(newFakeServer(), Options{PageSize: 10})
	require.NoError(t, c.Restore(context.Background()))
}
