package domain

// RunSnapshot is the immutable record of one completed scrape cycle. It is
// created once by the data source and never mutated afterwards; the analytics
// engine only reads it.
type RunSnapshot struct {
	// RunID increases monotonically and is unique within a RunHistory.
	RunID     int    `json:"run_id"`
	Timestamp string `json:"timestamp"` // ISO-8601

	SwappaProducts   []Listing `json:"swappa_products"`
	NeweggProducts   []Listing `json:"newegg_products"`
	EbaySoldProducts []Listing `json:"ebay_sold_products"`

	Opportunities []Opportunity `json:"arbitrage_opportunities"`

	// Cached listing counts, kept equal to the lengths of the slices above.
	TotalSwappa   int `json:"total_swappa"`
	TotalNewegg   int `json:"total_newegg"`
	TotalEbaySold int `json:"total_ebay_sold"`

	// BestOpportunity is the element of Opportunities with the maximal
	// margin percent, or nil when there are none.
	BestOpportunity *Opportunity `json:"best_opportunity"`
}

// ListingsBySource returns the run's listings for a single source, or every
// listing across all sources for SourceAll. The returned slice is newly
// allocated for SourceAll; per-source slices are shared and must not be
// mutated by callers.
func (r RunSnapshot) ListingsBySource(src Source) []Listing {
	switch src {
	case SourceSwappa:
		return r.SwappaProducts
	case SourceNewegg:
		return r.NeweggProducts
	case SourceEbay:
		return r.EbaySoldProducts
	default:
		all := make([]Listing, 0, len(r.SwappaProducts)+len(r.NeweggProducts)+len(r.EbaySoldProducts))
		all = append(all, r.SwappaProducts...)
		all = append(all, r.NeweggProducts...)
		all = append(all, r.EbaySoldProducts...)
		return all
	}
}

// RunHistory is the append-only archive of past runs, ordered by ascending
// run id, plus the latest live snapshot. Current may not yet be archived into
// Runs and is nil when no data has been loaded.
type RunHistory struct {
	Runs    []RunSnapshot `json:"runs"`
	Current *RunSnapshot  `json:"current"`
}

// FindRun returns the archived run with the given id. It also matches the
// current live snapshot so callers can compare against not-yet-archived data.
func (h RunHistory) FindRun(runID int) (RunSnapshot, bool) {
	for _, r := range h.Runs {
		if r.RunID == runID {
			return r, true
		}
	}
	if h.Current != nil && h.Current.RunID == runID {
		return *h.Current, true
	}
	return RunSnapshot{}, false
}

// Len returns the number of archived runs.
func (h RunHistory) Len() int { return len(h.Runs) }
