package domain

import (
	"context"
	"io"
	"time"
)

// BlobWriter uploads objects to cold storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}

// BlobInfo describes a stored object.
type BlobInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
}

// BlobReader retrieves objects from cold storage.
type BlobReader interface {
	// Get returns the object body; the caller closes it. Returns ErrNotFound
	// when the object does not exist.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]BlobInfo, error)
}

// Archiver exports old run snapshots to cold storage.
type Archiver interface {
	// ArchiveRuns uploads all runs recorded before the cutoff as JSONL and
	// returns the number of archived runs.
	ArchiveRuns(ctx context.Context, before time.Time) (int64, error)
}
