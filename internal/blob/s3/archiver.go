package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m3movement/dealfinder/internal/domain"
)

// RunArchiveStore provides read access to stored runs for archival purposes.
// The Postgres RunStore satisfies it through its time-ranged ListBefore
// query; the archiver does not need the full domain.RunStore surface.
type RunArchiveStore interface {
	// ListBefore returns all runs recorded strictly before the cutoff.
	ListBefore(ctx context.Context, before time.Time) ([]domain.RunSnapshot, error)
}

// ArchiveImpl implements domain.Archiver by querying the run store for old
// snapshots, serializing them to JSONL, and uploading the result to S3.
//
// Deletion of the archived rows from the primary store is intentionally NOT
// performed here; that is a separate, explicit step to be executed after the
// archive has been verified.
type ArchiveImpl struct {
	writer domain.BlobWriter
	runs   RunArchiveStore
	audit  domain.AuditStore
}

// NewArchiver creates a new ArchiveImpl.
func NewArchiver(writer domain.BlobWriter, runs RunArchiveStore, audit domain.AuditStore) *ArchiveImpl {
	return &ArchiveImpl{
		writer: writer,
		runs:   runs,
		audit:  audit,
	}
}

// ArchiveRuns queries all runs before the cutoff, serializes them to JSONL,
// and uploads the file to S3 at archive/runs/YYYY-MM.jsonl. The archival
// event is recorded in the audit log and the count of archived runs is
// returned. A cutoff that matches no runs archives nothing and returns 0.
func (a *ArchiveImpl) ArchiveRuns(ctx context.Context, before time.Time) (int64, error) {
	runs, err := a.runs.ListBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive runs query: %w", err)
	}
	if len(runs) == 0 {
		return 0, nil
	}

	buf, err := marshalJSONL(runs)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive runs marshal: %w", err)
	}

	path := archivePath("runs", before)
	if err := a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson"); err != nil {
		return 0, fmt.Errorf("s3blob: archive runs upload: %w", err)
	}

	count := int64(len(runs))

	if err := a.audit.Log(ctx, "archive.runs", map[string]any{
		"path":   path,
		"count":  count,
		"before": before.Format(time.RFC3339),
	}); err != nil {
		return count, fmt.Errorf("s3blob: archive runs audit log: %w", err)
	}

	return count, nil
}

// archivePath builds the S3 key for an archive file, partitioned by the
// year-month of the cutoff time.
//
//	archive/runs/2026-08.jsonl
func archivePath(kind string, before time.Time) string {
	return fmt.Sprintf("archive/%s/%s.jsonl", kind, before.Format("2006-01"))
}

// marshalJSONL serialises a slice of values as newline-delimited JSON.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}
