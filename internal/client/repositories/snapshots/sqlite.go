package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filevault/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, s Snapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, kind, payload, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			kind = excluded.kind,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`, s.Key, s.Kind, s.Payload, s.FetchedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to put snapshot[%s]: %w", s.Key, err)
	}
	return nil
}

// Get returns (nil, nil) when key is absent.
func (r *SQLiteRepository) Get(ctx context.Context, key string) (*Snapshot, error) {
	var (
		s  Snapshot
		ts int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT key, kind, payload, fetched_at FROM snapshots WHERE key = ?`, key,
	).Scan(&s.Key, &s.Kind, &s.Payload, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot[%s]: %w", key, err)
	}
	s.FetchedAt = time.Unix(0, ts)
	return &s, nil
}

// ListKind returns snapshots of kind, newest first.
func (r *SQLiteRepository) ListKind(ctx context.Context, kind string) ([]Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key, kind, payload, fetched_at FROM snapshots
		WHERE kind = ?
		ORDER BY fetched_at DESC, key
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var result []Snapshot
	for rows.Next() {
		var (
			s  Snapshot
			ts int64
		)
		if err := rows.Scan(&s.Key, &s.Kind, &s.Payload, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		s.FetchedAt = time.Unix(0, ts)
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot rows: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Trim(ctx context.Context, kind string, keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM snapshots
		WHERE kind = ? AND key NOT IN (
			SELECT key FROM snapshots WHERE kind = ?
			ORDER BY fetched_at DESC, key
			LIMIT ?
		)
	`, kind, kind, keep)
	if err != nil {
		return fmt.Errorf("failed to trim snapshots[%s]: %w", kind, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM snapshots`)
	if err != nil {
		return fmt.Errorf("failed to clear snapshots: %w", err)
	}
	return nil
}
