package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filevault/internal/client/cache"
	"github.com/dmitrijs2005/filevault/internal/client/models"
	"github.com/dmitrijs2005/filevault/internal/client/repositories/snapshots"
)

const (
	kindFiles = snapshots.KindFiles
	kindStats = snapshots.KindStats
	kindTypes = snapshots.KindTypes
)

// SnapshotStore is the persistence the coordinator writes last good views to.
type SnapshotStore interface {
	Put(ctx context.Context, s snapshots.Snapshot) error
	ListKind(ctx context.Context, kind string) ([]snapshots.Snapshot, error)
}

type filesSnapshot struct {
	Query models.QuerySpec `json:"query"`
	Page  *cache.FilePage  `json:"page"`
}

// save writes v best-effort; failures are logged and otherwise ignored.
func (s *coordinator) save(ctx context.Context, key, kind string, v any) {
	if s.snapshots == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn(ctx, "snapshot encode failed", "key", key, "error", err)
		return
	}
	snap := snapshots.Snapshot{Key: key, Kind: kind, Payload: b, FetchedAt: time.Now()}
	if err := s.snapshots.Put(ctx, snap); err != nil {
		s.logger.Warn(ctx, "snapshot save failed", "key", key, "error", err)
	}
}

func (s *coordinator) saveFiles(ctx context.Context, q models.QuerySpec, page *cache.FilePage) {
	s.save(ctx, kindFiles+":"+q.Key(), kindFiles, filesSnapshot{Query: q, Page: page})
}

// Restore primes the caches with the snapshots of a previous session. Restored
// entries are Stale, so the first read still goes to the server.
func (s *coordinator) Restore(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}

	files, err := s.snapshots.ListKind(ctx, kindFiles)
	if err != nil {
		return fmt.Errorf("restore pages: %w", err)
	}
	for _, snap := range files {
		var fs filesSnapshot
		if err := json.Unmarshal(snap.Payload, &fs); err != nil || fs.Page == nil {
			s.logger.Warn(ctx, "skipping unreadable snapshot", "key", snap.Key, "error", err)
			continue
		}
		s.files.Prime(fs.Query, fs.Page, snap.FetchedAt)
	}

	if err := restoreOne(ctx, s.snapshots, kindStats, func(b []byte, at time.Time) error {
		var st models.StorageStats
		if err := json.Unmarshal(b, &st); err != nil {
			return err
		}
		s.stats.Prime(statsKey, &st, at)
		return nil
	}); err != nil {
		return fmt.Errorf("restore stats: %w", err)
	}

	if err := restoreOne(ctx, s.snapshots, kindTypes, func(b []byte, at time.Time) error {
		var types []string
		if err := json.Unmarshal(b, &types); err != nil {
			return err
		}
		s.types.Prime(typesKey, types, at)
		return nil
	}); err != nil {
		return fmt.Errorf("restore file types: %w", err)
	}

	s.logger.Debug(ctx, "snapshots restored", "pages", len(files))
	return nil
}

func restoreOne(ctx context.Context, store SnapshotStore, kind string, apply func([]byte, time.Time) error) error {
	list, err := store.ListKind(ctx, kind)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return nil
	}
	return apply(list[0].Payload, list[0].FetchedAt)
}
