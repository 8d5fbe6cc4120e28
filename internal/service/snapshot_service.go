// Package service coordinates the analytics engine, the snapshot loader, and
// the infrastructure adapters (Postgres, Redis, S3, notifications).
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/m3movement/dealfinder/internal/analytics"
	"github.com/m3movement/dealfinder/internal/domain"
	"github.com/m3movement/dealfinder/internal/snapshot"
)

// SnapshotChannel is the signal-bus channel snapshot events are published on.
const SnapshotChannel = "snapshot"

// AlertThresholds gates best-opportunity notifications. An alert fires only
// when the best opportunity of a new snapshot clears both values.
type AlertThresholds struct {
	MinProfit float64
	MinMargin float64
}

// Notifier is the subset of the notification dispatcher the snapshot
// pipeline uses.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// SnapshotService owns the current in-memory snapshot and runs the ingest
// pipeline: each new document is atomically swapped in, persisted, cached,
// and announced on the signal bus. Readers never block on ingest; they see
// either the previous document or the new one, never a partial state.
//
// The store, cache, bus, and notifier dependencies are all optional. A nil
// dependency skips that pipeline stage, which is how the serve-only mode
// runs without Postgres or Redis.
type SnapshotService struct {
	current atomic.Pointer[snapshot.Document]

	runs     domain.RunStore
	cache    domain.SnapshotCache
	bus      domain.SignalBus
	notifier Notifier
	alerts   AlertThresholds
	logger   *slog.Logger

	lastAlertRunID atomic.Int64
}

// NewSnapshotService creates a SnapshotService. Any of runs, cache, bus, and
// notifier may be nil.
func NewSnapshotService(
	runs domain.RunStore,
	cache domain.SnapshotCache,
	bus domain.SignalBus,
	notifier Notifier,
	alerts AlertThresholds,
	logger *slog.Logger,
) *SnapshotService {
	s := &SnapshotService{
		runs:     runs,
		cache:    cache,
		bus:      bus,
		notifier: notifier,
		alerts:   alerts,
		logger:   logger.With(slog.String("component", "snapshot_service")),
	}
	s.lastAlertRunID.Store(-1)
	return s
}

// Apply installs a freshly decoded document as the current snapshot and runs
// the downstream pipeline stages. Persistence failures are returned; cache,
// bus, and notification failures are logged and do not fail the ingest.
func (s *SnapshotService) Apply(ctx context.Context, doc snapshot.Document) error {
	s.current.Store(&doc)

	s.logger.InfoContext(ctx, "snapshot applied",
		slog.Int("run_count", doc.RunCount),
		slog.Int("history_len", doc.History.Len()),
		slog.String("last_updated", doc.LastUpdated),
	)

	if s.runs != nil {
		runs := doc.History.Runs
		if doc.History.Current != nil {
			runs = append(append([]domain.RunSnapshot{}, runs...), *doc.History.Current)
		}
		if err := s.runs.UpsertBatch(ctx, runs); err != nil {
			return fmt.Errorf("service: persist snapshot: %w", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, doc.History); err != nil {
			s.logger.WarnContext(ctx, "snapshot cache set failed",
				slog.String("error", err.Error()),
			)
		}
	}

	if s.bus != nil {
		evt, _ := json.Marshal(map[string]any{
			"event":        "snapshot_updated",
			"event_id":     uuid.NewString(),
			"run_count":    doc.RunCount,
			"last_updated": doc.LastUpdated,
			"published_at": time.Now().UTC().Format(time.RFC3339),
		})
		if err := s.bus.Publish(ctx, SnapshotChannel, evt); err != nil {
			s.logger.WarnContext(ctx, "snapshot event publish failed",
				slog.String("error", err.Error()),
			)
		}
	}

	s.maybeAlert(ctx, doc)

	return nil
}

// Document returns the current snapshot document, or nil when no snapshot
// has been applied yet.
func (s *SnapshotService) Document() *snapshot.Document {
	return s.current.Load()
}

// History returns the run history of the current snapshot. An empty history
// is returned before the first snapshot has been applied.
func (s *SnapshotService) History() domain.RunHistory {
	doc := s.current.Load()
	if doc == nil {
		return domain.RunHistory{}
	}
	return doc.History
}

// Ready reports whether a snapshot has been applied.
func (s *SnapshotService) Ready() bool {
	return s.current.Load() != nil
}

// maybeAlert sends a notification when the current run's best opportunity
// clears both alert thresholds. At most one alert is sent per run id so a
// re-ingest of the same file stays quiet.
func (s *SnapshotService) maybeAlert(ctx context.Context, doc snapshot.Document) {
	if s.notifier == nil || doc.History.Current == nil {
		return
	}

	best := doc.History.Current.BestOpportunity
	if best == nil {
		return
	}
	margin, ok := best.Margin()
	if !ok {
		return
	}
	if best.PotentialProfit < s.alerts.MinProfit || margin < s.alerts.MinMargin {
		return
	}

	runID := int64(doc.History.Current.RunID)
	last := s.lastAlertRunID.Load()
	if last == runID || !s.lastAlertRunID.CompareAndSwap(last, runID) {
		return
	}

	title := "Deal alert"
	message := fmt.Sprintf("%s: buy $%.2f on %s, sells ~$%.2f on eBay (profit $%.2f, margin %.1f%%)",
		best.BuyProductName, best.BuyPrice, best.BuySource,
		best.EbayAvgSoldPrice, best.PotentialProfit, margin,
	)
	if err := s.notifier.Notify(ctx, "opportunity", title, message); err != nil {
		s.logger.WarnContext(ctx, "opportunity alert failed",
			slog.String("error", err.Error()),
		)
	}
}

// RunLoop polls the loader and applies each changed snapshot until the
// context is cancelled. Decode errors are logged and retried on the next
// tick; the previous snapshot stays current in the meantime.
func (s *SnapshotService) RunLoop(ctx context.Context, loader *snapshot.Loader, interval time.Duration) error {
	return loader.RunLoop(ctx, interval, s.Apply)
}

// BestCurrentOpportunity returns the best opportunity of the current run, or
// nil when there is no current run or no opportunities.
func (s *SnapshotService) BestCurrentOpportunity() *domain.Opportunity {
	doc := s.current.Load()
	if doc == nil || doc.History.Current == nil {
		return nil
	}
	if doc.History.Current.BestOpportunity != nil {
		return doc.History.Current.BestOpportunity
	}
	return analytics.BestOpportunity(doc.History.Current.Opportunities)
}
