package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/m3movement/dealfinder/internal/domain"
	"github.com/m3movement/dealfinder/internal/snapshot"
)

// RunService is the slice of the analytics facade the run endpoints use.
type RunService interface {
	Runs() []domain.RunSnapshot
	CurrentRun() *domain.RunSnapshot
	RunByID(ctx context.Context, runID int) (domain.RunSnapshot, error)
}

// SnapshotReader exposes the current decoded document.
type SnapshotReader interface {
	Document() *snapshot.Document
}

// RunHandler serves the run history endpoints.
type RunHandler struct {
	runs      RunService
	snapshots SnapshotReader
	logger    *slog.Logger
}

// NewRunHandler creates a RunHandler.
func NewRunHandler(runs RunService, snapshots SnapshotReader, logger *slog.Logger) *RunHandler {
	return &RunHandler{
		runs:      runs,
		snapshots: snapshots,
		logger:    logger,
	}
}

// runListItem is the compact per-run view used by the list endpoint; full
// listings and opportunities come from the per-run endpoint.
type runListItem struct {
	RunID            int    `json:"run_id"`
	Timestamp        string `json:"timestamp"`
	TotalSwappa      int    `json:"total_swappa"`
	TotalNewegg      int    `json:"total_newegg"`
	TotalEbaySold    int    `json:"total_ebay_sold"`
	OpportunityCount int    `json:"opportunity_count"`
	IsCurrent        bool   `json:"is_current"`
}

func toListItem(run domain.RunSnapshot, isCurrent bool) runListItem {
	return runListItem{
		RunID:            run.RunID,
		Timestamp:        run.Timestamp,
		TotalSwappa:      run.TotalSwappa,
		TotalNewegg:      run.TotalNewegg,
		TotalEbaySold:    run.TotalEbaySold,
		OpportunityCount: len(run.Opportunities),
		IsCurrent:        isCurrent,
	}
}

// ListRuns returns the archived runs plus the current one, oldest first.
// limit keeps only the most recent N runs.
// GET /api/runs?limit=10
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	archived := h.runs.Runs()
	items := make([]runListItem, 0, len(archived)+1)
	for _, run := range archived {
		items = append(items, toListItem(run, false))
	}
	if current := h.runs.CurrentRun(); current != nil {
		items = append(items, toListItem(*current, true))
	}
	if limit > 0 && limit < len(items) {
		items = items[len(items)-limit:]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"runs":  items,
		"total": len(items),
	})
}

// GetRun returns one full run snapshot by id.
// GET /api/runs/{id}
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	run, err := h.runs.RunByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get run failed",
			slog.Int("run_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// GetSnapshot returns the full current document: top-level metadata plus the
// run history.
// GET /api/snapshot
func (h *RunHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	doc := h.snapshots.Document()
	if doc == nil {
		writeError(w, http.StatusServiceUnavailable, "no snapshot loaded yet")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
