package snapshot

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Loader reads and decodes the scraper data file. It remembers a digest of
// the last payload so that pollers can skip unchanged files.
type Loader struct {
	path       string
	maxRuns    int
	lastDigest [sha256.Size]byte
	logger     *slog.Logger
}

// NewLoader creates a Loader for the data file at path. History is capped at
// maxRuns (oldest first); zero or negative means unbounded.
func NewLoader(path string, maxRuns int, logger *slog.Logger) *Loader {
	return &Loader{
		path:    path,
		maxRuns: maxRuns,
		logger:  logger.With(slog.String("component", "snapshot_loader")),
	}
}

// Load reads and decodes the data file unconditionally.
func (l *Loader) Load(ctx context.Context) (Document, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return Document{}, fmt.Errorf("snapshot: read %s: %w", l.path, err)
	}

	doc, err := Decode(data)
	if err != nil {
		return Document{}, err
	}
	doc.History = CapHistory(doc.History, l.maxRuns)

	l.lastDigest = sha256.Sum256(data)
	l.logger.DebugContext(ctx, "snapshot loaded",
		slog.Int("run_count", doc.RunCount),
		slog.Int("archived_runs", len(doc.History.Runs)),
	)
	return doc, nil
}

// LoadIfChanged reads the data file and decodes it only when its contents
// differ from the previous Load or LoadIfChanged. The second return value is
// false when the file was unchanged.
func (l *Loader) LoadIfChanged(ctx context.Context) (Document, bool, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return Document{}, false, fmt.Errorf("snapshot: read %s: %w", l.path, err)
	}

	digest := sha256.Sum256(data)
	if digest == l.lastDigest {
		return Document{}, false, nil
	}

	doc, err := Decode(data)
	if err != nil {
		return Document{}, false, err
	}
	doc.History = CapHistory(doc.History, l.maxRuns)

	l.lastDigest = digest
	return doc, true, nil
}

// RunLoop polls the data file on the given interval and invokes onChange for
// every new payload, starting with an immediate load. A missing or malformed
// file is logged and retried on the next tick; only ctx cancellation ends the
// loop.
func (l *Loader) RunLoop(ctx context.Context, interval time.Duration, onChange func(context.Context, Document) error) error {
	l.logger.InfoContext(ctx, "snapshot poller started",
		slog.String("path", l.path),
		slog.Duration("interval", interval),
	)
	defer l.logger.Info("snapshot poller stopped")

	tick := func() {
		doc, changed, err := l.LoadIfChanged(ctx)
		if err != nil {
			l.logger.WarnContext(ctx, "snapshot load failed",
				slog.String("error", err.Error()),
			)
			return
		}
		if !changed {
			return
		}
		if err := onChange(ctx, doc); err != nil {
			l.logger.ErrorContext(ctx, "snapshot refresh failed",
				slog.String("error", err.Error()),
			)
		}
	}

	tick()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			tick()
		}
	}
}
