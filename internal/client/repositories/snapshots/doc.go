// Package snapshots persists the last successfully fetched server views
// (file pages, storage stats, file types) in the local SQLite database.
//
// # Overview
//
// Snapshots let a restarted client render the previous session's data at once,
// marked stale, while fresh copies are fetched. They are a display aid only:
// the server stays the source of truth and nothing here is ever sent back.
//
// Key Types
//
//   - type Snapshot: one persisted payload with its kind and fetch time
//   - type Repository: interface used by the coordinator
//   - type SQLiteRepository: SQLite implementation over dbx.DBTX
//   - type Store: *sql.DB wrapper that bounds each kind transactionally
//
// Typical Usage
//
//	store := snapshots.NewStore(db, 50)
//	_ = store.Put(ctx, snapshots.Snapshot{Key: key, Kind: snapshots.KindFiles, Payload: b})
//	list, _ := store.ListKind(ctx, snapshots.KindFiles)
package snapshots
