package handler

import (
	"log/slog"
	"net/http"

	"github.com/m3movement/dealfinder/internal/domain"
)

// OpportunityService is the slice of the analytics facade the opportunity
// endpoint uses.
type OpportunityService interface {
	Opportunities(q domain.OpportunityQuery) []domain.Opportunity
	Summary(q domain.OpportunityQuery) (domain.Summary, error)
}

// OpportunityHandler serves the precomputed arbitrage opportunities of the
// current run.
type OpportunityHandler struct {
	opps   OpportunityService
	logger *slog.Logger
}

// NewOpportunityHandler creates an OpportunityHandler.
func NewOpportunityHandler(opps OpportunityService, logger *slog.Logger) *OpportunityHandler {
	return &OpportunityHandler{opps: opps, logger: logger}
}

// ListOpportunities returns the current run's opportunities, filtered and
// ranked by margin. min_profit and min_margin default to the configured
// thresholds; order=asc flips the default high-to-low ranking; limit caps
// the result after ranking.
// GET /api/opportunities?min_profit=10&min_margin=5&order=desc&limit=25
func (h *OpportunityHandler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	minProfit, err := queryFloat(r, "min_profit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid min_profit")
		return
	}
	minMargin, err := queryFloat(r, "min_margin")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid min_margin")
		return
	}

	order := r.URL.Query().Get("order")
	if order != "" && order != "asc" && order != "desc" {
		writeError(w, http.StatusBadRequest, "order must be asc or desc")
		return
	}

	limit, err := queryInt(r, "limit")
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	opps := h.opps.Opportunities(domain.OpportunityQuery{
		MinProfit:  minProfit,
		MinMargin:  minMargin,
		Descending: order != "asc",
	})
	if limit > 0 && limit < len(opps) {
		opps = opps[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"opportunities": opps,
		"total":         len(opps),
	})
}

// GetSummary returns profit and margin aggregates over the current run's
// opportunities that clear the thresholds.
// GET /api/summary?min_profit=10&min_margin=5
func (h *OpportunityHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	minProfit, err := queryFloat(r, "min_profit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid min_profit")
		return
	}
	minMargin, err := queryFloat(r, "min_margin")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid min_margin")
		return
	}

	summary, err := h.opps.Summary(domain.OpportunityQuery{
		MinProfit: minProfit,
		MinMargin: minMargin,
	})
	if err != nil {
		// ErrEmptyInput covers both "no snapshot" and "nothing above threshold".
		writeError(w, http.StatusNotFound, "no opportunities to summarize")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
