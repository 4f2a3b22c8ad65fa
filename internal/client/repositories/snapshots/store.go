package snapshots

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/filevault/internal/dbx"
)

// Store is a Repository over *sql.DB whose Put also trims the snapshot's
// kind to maxPerKind rows in the same transaction.
type Store struct {
	*SQLiteRepository
	db         *sql.DB
	maxPerKind int
}

func NewStore(db *sql.DB, maxPerKind int) *Store {
	return &Store{SQLiteRepository: NewSQLiteRepository(db), db: db, maxPerKind: maxPerKind}
}

func (s *Store) Put(ctx context.Context, snap Snapshot) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Put(ctx, snap); err != nil {
			return err
		}
		if s.maxPerKind <= 0 {
			return nil
		}
		return repo.Trim(ctx, snap.Kind, s.maxPerKind)
	})
}
