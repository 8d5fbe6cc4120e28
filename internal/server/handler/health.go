package handler

import (
	"log/slog"
	"net/http"
	"time"
)

// SnapshotStatus reports whether a snapshot has been loaded and its basic
// shape; the health endpoint embeds it so the dashboard can distinguish "API
// up, no data yet" from a dead backend.
type SnapshotStatus interface {
	Ready() bool
}

// HealthHandler serves the health-check endpoint.
type HealthHandler struct {
	snapshots SnapshotStatus
	logger    *slog.Logger
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(snapshots SnapshotStatus, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{snapshots: snapshots, logger: logger}
}

// HealthCheck responds with the API status and snapshot readiness.
// GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"snapshot_ready": h.snapshots.Ready(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
