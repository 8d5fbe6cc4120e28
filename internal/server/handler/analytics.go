package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/m3movement/dealfinder/internal/domain"
)

// CompareService is the slice of the analytics facade the comparison and
// series endpoints use.
type CompareService interface {
	Compare(ctx context.Context, runIDA, runIDB int) (domain.RunComparison, error)
	Series(metric domain.SeriesMetric) ([]domain.SeriesPoint, error)
}

// AnalyticsHandler serves the run comparison and time-series endpoints.
type AnalyticsHandler struct {
	analytics CompareService
	logger    *slog.Logger
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(analytics CompareService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, logger: logger}
}

// CompareRuns diffs two runs by id.
// GET /api/compare?run_a=1&run_b=2
func (h *AnalyticsHandler) CompareRuns(w http.ResponseWriter, r *http.Request) {
	runA, errA := strconv.Atoi(r.URL.Query().Get("run_a"))
	runB, errB := strconv.Atoi(r.URL.Query().Get("run_b"))
	if errA != nil || errB != nil {
		writeError(w, http.StatusBadRequest, "run_a and run_b must be integer run ids")
		return
	}

	cmp, err := h.analytics.Compare(r.Context(), runA, runB)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidComparison):
			writeError(w, http.StatusBadRequest, "cannot compare a run to itself")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "run not found")
		default:
			h.logger.ErrorContext(r.Context(), "handler: compare runs failed",
				slog.Int("run_a", runA),
				slog.Int("run_b", runB),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "failed to compare runs")
		}
		return
	}

	writeJSON(w, http.StatusOK, cmp)
}

// GetSeries builds a per-run time series of one metric.
// GET /api/series?metric=swappa_count
func (h *AnalyticsHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	metric := domain.SeriesMetric(r.URL.Query().Get("metric"))
	if metric == "" {
		writeError(w, http.StatusBadRequest, "missing metric")
		return
	}

	points, err := h.analytics.Series(metric)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownMetric) {
			writeError(w, http.StatusBadRequest, "unknown metric")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: build series failed",
			slog.String("metric", string(metric)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to build series")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"metric": string(metric),
		"points": points,
	})
}
