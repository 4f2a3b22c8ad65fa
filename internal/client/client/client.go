package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/filevault/internal/client/models"
)

// File is an upload source.
type File interface {
	Name() string
	Size() int64
	ContentType() string
	Open() (io.ReadCloser, error)
}

// ProgressFunc receives upload progress in percent (0..100), never decreasing.
type ProgressFunc func(percent int)

// Client is the remote resource API of the file-storage backend.
type Client interface {
	Upload(ctx context.Context, f File, progress ProgressFunc) (*models.FileRecord, error)
	ListFiles(ctx context.Context, q models.QuerySpec) (*models.Page[models.FileRecord], error)
	DeleteFile(ctx context.Context, id int64) error
	FetchStats(ctx context.Context) (*models.StorageStats, error)
	FetchFileTypes(ctx context.Context) ([]string, error)
	Download(ctx context.Context, rec models.FileRecord, w io.Writer) error
}
