package handler

import (
	"log/slog"
	"net/http"

	"github.com/m3movement/dealfinder/internal/domain"
)

// ListingService is the slice of the analytics facade the listing endpoint
// uses.
type ListingService interface {
	Listings(f domain.ListingFilter) []domain.Listing
}

// ListingHandler serves the raw marketplace listings of the current run.
type ListingHandler struct {
	listings ListingService
	logger   *slog.Logger
}

// NewListingHandler creates a ListingHandler.
func NewListingHandler(listings ListingService, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{listings: listings, logger: logger}
}

// ListListings returns the current run's listings, optionally restricted to
// one source and filtered by margin.
// GET /api/listings?source=swappa&min_margin=5&only_profitable=true
func (h *ListingHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	minMargin, err := queryFloat(r, "min_margin")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid min_margin")
		return
	}

	filter := domain.ListingFilter{
		MinMargin:      minMargin,
		OnlyProfitable: queryBool(r, "only_profitable"),
		Source:         domain.ParseSource(r.URL.Query().Get("source")),
	}

	listings := h.listings.Listings(filter)

	writeJSON(w, http.StatusOK, map[string]any{
		"listings": listings,
		"source":   string(filter.Source),
		"total":    len(listings),
	})
}
