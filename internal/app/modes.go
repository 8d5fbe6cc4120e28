package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m3movement/dealfinder/internal/server"
	"github.com/m3movement/dealfinder/internal/server/handler"
	"github.com/m3movement/dealfinder/internal/server/ws"
	"github.com/m3movement/dealfinder/internal/service"
	"github.com/m3movement/dealfinder/internal/snapshot"
)

// services groups the domain services shared by all modes.
type services struct {
	loader    *snapshot.Loader
	snapshots *service.SnapshotService
	analytics *service.AnalyticsService
}

// buildServices constructs the snapshot loader and the domain services from
// the wired dependencies. The services tolerate nil stores and caches, so
// this works for every mode.
func (a *App) buildServices(deps *Dependencies) *services {
	loader := snapshot.NewLoader(
		a.cfg.Snapshot.DataFile,
		a.cfg.Snapshot.MaxHistoryRuns,
		a.logger,
	)

	snapshots := service.NewSnapshotService(
		deps.RunStore,
		deps.SnapshotCache,
		deps.SignalBus,
		deps.Notifier,
		service.AlertThresholds{
			MinProfit: a.cfg.Analytics.AlertMinProfit,
			MinMargin: a.cfg.Analytics.AlertMinMargin,
		},
		a.logger,
	)

	analytics := service.NewAnalyticsService(
		snapshots,
		deps.RunStore,
		service.AnalyticsDefaults{
			MinProfit: a.cfg.Analytics.MinProfit,
			MinMargin: a.cfg.Analytics.MinMargin,
		},
		a.logger,
	)

	return &services{
		loader:    loader,
		snapshots: snapshots,
		analytics: analytics,
	}
}

// pollInterval returns the configured snapshot poll interval.
func (a *App) pollInterval() time.Duration {
	return time.Duration(a.cfg.Snapshot.PollIntervalSeconds) * time.Second
}

// ServeMode runs the snapshot poller and the HTTP/WebSocket API.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	svcs := a.buildServices(deps)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svcs.snapshots.RunLoop(ctx, svcs.loader, a.pollInterval())
	})

	a.startHTTPServer(ctx, g, deps, svcs)

	return g.Wait()
}

// IngestMode loads the data file once, persists and caches the result, and
// exits. Intended for cron-style deployments where the scraper and the API
// run on separate schedules.
func (a *App) IngestMode(ctx context.Context, deps *Dependencies) error {
	svcs := a.buildServices(deps)

	doc, err := svcs.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("app: ingest: %w", err)
	}
	if err := svcs.snapshots.Apply(ctx, doc); err != nil {
		return fmt.Errorf("app: ingest: %w", err)
	}

	a.logger.InfoContext(ctx, "ingest complete",
		slog.Int("run_count", doc.RunCount),
	)
	return nil
}

// ArchiveMode runs a single archival pass and exits. The periodic loop lives
// in FullMode.
func (a *App) ArchiveMode(ctx context.Context, deps *Dependencies) error {
	if deps.Archiver == nil {
		return fmt.Errorf("app: archive mode requires postgres and s3 to be configured")
	}
	return a.archivePass(ctx, deps)
}

// FullMode runs everything: the snapshot poller, the HTTP/WebSocket API, and
// the periodic archival loop.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	svcs := a.buildServices(deps)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svcs.snapshots.RunLoop(ctx, svcs.loader, a.pollInterval())
	})

	a.startHTTPServer(ctx, g, deps, svcs)

	if deps.Archiver != nil {
		g.Go(func() error {
			interval := time.Duration(a.cfg.Archive.IntervalHours) * time.Hour
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					if err := a.archivePass(ctx, deps); err != nil {
						a.logger.ErrorContext(ctx, "archive pass failed",
							slog.String("error", err.Error()),
						)
					}
				}
			}
		})
	}

	return g.Wait()
}

// archivePass moves runs older than the retention window to blob storage and
// notifies operators when anything was archived.
func (a *App) archivePass(ctx context.Context, deps *Dependencies) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -a.cfg.Archive.RetentionDays)

	a.logger.InfoContext(ctx, "starting archive pass",
		slog.Time("cutoff", cutoff),
	)

	count, err := deps.Archiver.ArchiveRuns(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("app: archive runs: %w", err)
	}

	a.logger.InfoContext(ctx, "archive pass complete",
		slog.Int64("archived", count),
	)

	if count > 0 && deps.Notifier != nil {
		msg := fmt.Sprintf("Archived %d runs older than %s to cold storage.",
			count, cutoff.Format("2006-01-02"))
		if err := deps.Notifier.Notify(ctx, "archive", "Run archive complete", msg); err != nil {
			a.logger.WarnContext(ctx, "archive notification failed",
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// startHTTPServer builds the handlers, WebSocket hub, and HTTP server, and
// registers their goroutines on the errgroup, including a graceful-shutdown
// watcher tied to the group context.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies, svcs *services) {
	handlers := server.Handlers{
		Health:        handler.NewHealthHandler(svcs.snapshots, a.logger),
		Runs:          handler.NewRunHandler(svcs.analytics, svcs.snapshots, a.logger),
		Opportunities: handler.NewOpportunityHandler(svcs.analytics, a.logger),
		Listings:      handler.NewListingHandler(svcs.analytics, a.logger),
		Analytics:     handler.NewAnalyticsHandler(svcs.analytics, a.logger),
	}

	var hub *ws.Hub
	if deps.SignalBus != nil {
		hub = ws.NewHub(deps.SignalBus, a.logger, ws.Config{
			Mode:      a.cfg.Mode,
			StartedAt: time.Now().UTC(),
		})
		g.Go(func() error {
			return hub.Run(ctx)
		})
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
		RateLimit:   a.cfg.Server.RateLimitPerMinute,
		RateWindow:  time.Minute,
	}, handlers, hub, deps.RateLimiter, a.logger)

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown failed", slog.String("error", err.Error()))
		}
		return ctx.Err()
	})
}
