package domain

import (
	"context"
	"time"
)

// ListOpts provides pagination for list queries.
type ListOpts struct {
	Limit  int
	Offset int
}

// RunStore persists run snapshots. The history is append-only: Upsert exists
// so that re-ingesting the same data file is idempotent, not so that runs can
// be edited.
type RunStore interface {
	Upsert(ctx context.Context, run RunSnapshot) error
	UpsertBatch(ctx context.Context, runs []RunSnapshot) error
	GetByRunID(ctx context.Context, runID int) (RunSnapshot, error)
	ListRecent(ctx context.Context, limit int) ([]RunSnapshot, error)
	// ListBefore returns runs recorded strictly before the cutoff, used by
	// the cold-storage archiver.
	ListBefore(ctx context.Context, before time.Time) ([]RunSnapshot, error)
	Count(ctx context.Context) (int64, error)
}

// AuditEntry is a single audit log row.
type AuditEntry struct {
	ID        string
	Event     string
	Detail    map[string]any
	CreatedAt time.Time
}

// AuditStore persists an append-only audit log.
type AuditStore interface {
	Log(ctx context.Context, event string, detail map[string]any) error
	List(ctx context.Context, opts ListOpts) ([]AuditEntry, error)
}
