package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3movement/dealfinder/internal/analytics"
	"github.com/m3movement/dealfinder/internal/domain"
)

// AnalyticsDefaults holds the fallback thresholds applied when a query does
// not specify its own.
type AnalyticsDefaults struct {
	MinProfit float64
	MinMargin float64
}

// AnalyticsService is the query facade over the analytics engine. It always
// reads from the in-memory snapshot; the optional run store widens lookups to
// runs that have already rotated out of the 20-run window.
type AnalyticsService struct {
	snapshots *SnapshotService
	runs      domain.RunStore
	defaults  AnalyticsDefaults
	logger    *slog.Logger
}

// NewAnalyticsService creates an AnalyticsService. runs may be nil, in which
// case lookups are limited to the in-memory history.
func NewAnalyticsService(
	snapshots *SnapshotService,
	runs domain.RunStore,
	defaults AnalyticsDefaults,
	logger *slog.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		snapshots: snapshots,
		runs:      runs,
		defaults:  defaults,
		logger:    logger.With(slog.String("component", "analytics_service")),
	}
}

// Runs returns the archived runs of the current snapshot, oldest first.
func (s *AnalyticsService) Runs() []domain.RunSnapshot {
	return s.snapshots.History().Runs
}

// CurrentRun returns the current (most recent) run, or nil before the first
// snapshot.
func (s *AnalyticsService) CurrentRun() *domain.RunSnapshot {
	return s.snapshots.History().Current
}

// RunByID returns a single run. The in-memory history is checked first; runs
// that have rotated out of it are looked up in the store when one is wired.
// Returns domain.ErrNotFound when the run is unknown to both.
func (s *AnalyticsService) RunByID(ctx context.Context, runID int) (domain.RunSnapshot, error) {
	if run, ok := s.snapshots.History().FindRun(runID); ok {
		return run, nil
	}
	if s.runs == nil {
		return domain.RunSnapshot{}, fmt.Errorf("analytics_service: run %d: %w", runID, domain.ErrNotFound)
	}
	run, err := s.runs.GetByRunID(ctx, runID)
	if err != nil {
		return domain.RunSnapshot{}, fmt.Errorf("analytics_service: run %d: %w", runID, err)
	}
	return run, nil
}

// Opportunities returns the current run's opportunities filtered by the
// query thresholds and ranked by margin. An empty slice is returned before
// the first snapshot.
func (s *AnalyticsService) Opportunities(q domain.OpportunityQuery) []domain.Opportunity {
	current := s.snapshots.History().Current
	if current == nil {
		return nil
	}

	minProfit, minMargin := s.thresholds(q)
	filtered := analytics.FilterOpportunities(current.Opportunities, minProfit, minMargin)
	return analytics.RankByMargin(filtered, q.Descending)
}

// thresholds resolves the effective filter bounds, substituting the
// configured defaults for unset query fields.
func (s *AnalyticsService) thresholds(q domain.OpportunityQuery) (minProfit, minMargin float64) {
	minProfit = s.defaults.MinProfit
	if q.MinProfit != nil {
		minProfit = *q.MinProfit
	}
	minMargin = s.defaults.MinMargin
	if q.MinMargin != nil {
		minMargin = *q.MinMargin
	}
	return minProfit, minMargin
}

// Listings returns the current run's listings for the requested source,
// filtered by the given criteria. An empty slice is returned before the
// first snapshot.
func (s *AnalyticsService) Listings(f domain.ListingFilter) []domain.Listing {
	current := s.snapshots.History().Current
	if current == nil {
		return nil
	}
	return analytics.FilterListings(current.ListingsBySource(f.Source), f)
}

// Compare diffs two runs by id. Either run may come from the in-memory
// history or, when a store is wired, from Postgres. Comparing a run id to
// itself returns domain.ErrInvalidComparison.
func (s *AnalyticsService) Compare(ctx context.Context, runIDA, runIDB int) (domain.RunComparison, error) {
	runA, err := s.RunByID(ctx, runIDA)
	if err != nil {
		return domain.RunComparison{}, err
	}
	runB, err := s.RunByID(ctx, runIDB)
	if err != nil {
		return domain.RunComparison{}, err
	}
	return analytics.CompareRuns(runA, runB)
}

// Series builds a time series of the given metric over the archived runs,
// oldest first. Returns domain.ErrUnknownMetric for unrecognised metrics.
func (s *AnalyticsService) Series(metric domain.SeriesMetric) ([]domain.SeriesPoint, error) {
	return analytics.BuildSeries(s.snapshots.History(), metric)
}

// Summary aggregates profit and margin statistics over the current run's
// opportunities that clear the query thresholds, using the same defaults
// substitution as Opportunities. Returns domain.ErrEmptyInput when nothing
// clears the thresholds or no snapshot has loaded yet.
func (s *AnalyticsService) Summary(q domain.OpportunityQuery) (domain.Summary, error) {
	current := s.snapshots.History().Current
	if current == nil {
		return domain.Summary{}, fmt.Errorf("analytics_service: summary: %w", domain.ErrEmptyInput)
	}
	minProfit, minMargin := s.thresholds(q)
	filtered := analytics.FilterOpportunities(current.Opportunities, minProfit, minMargin)
	return analytics.Summarize(filtered)
}
