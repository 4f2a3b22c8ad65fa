package snapshots

import (
	"context"
	"time"
)

// Snapshot kinds.
const (
	KindFiles = "files"
	KindStats = "stats"
	KindTypes = "types"
)

type Snapshot struct {
	Key       string
	Kind      string
	Payload   []byte
	FetchedAt time.Time
}

type Repository interface {
	Put(ctx context.Context, s Snapshot) error
	Get(ctx context.Context, key string) (*Snapshot, error)
	ListKind(ctx context.Context, kind string) ([]Snapshot, error)
	// Trim keeps the newest keep snapshots of kind and deletes the rest.
	Trim(ctx context.Context, kind string, keep int) error
	Clear(ctx context.Context) error
}
