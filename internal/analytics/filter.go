package analytics

import (
	"slices"

	"github.com/m3movement/dealfinder/internal/domain"
)

// FilterOpportunities keeps opportunities whose potential profit and margin
// percent both meet the given bounds (inclusive). An undefined margin is
// treated as -infinity, so any finite minMargin excludes it. Output preserves
// input order; callers apply ranking separately.
func FilterOpportunities(opps []domain.Opportunity, minProfit, minMargin float64) []domain.Opportunity {
	out := make([]domain.Opportunity, 0, len(opps))
	for _, o := range opps {
		if o.PotentialProfit < minProfit {
			continue
		}
		m, ok := o.Margin()
		if !ok || m < minMargin {
			continue
		}
		out = append(out, o)
	}
	return out
}

// RankByMargin returns the opportunities stably sorted by margin percent.
// Entries with an undefined margin always sort last, regardless of direction:
// a nil-margin item never outranks a numeric one.
func RankByMargin(opps []domain.Opportunity, descending bool) []domain.Opportunity {
	out := slices.Clone(opps)
	slices.SortStableFunc(out, func(a, b domain.Opportunity) int {
		ma, aok := a.Margin()
		mb, bok := b.Margin()
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		case ma == mb:
			return 0
		}
		less := ma < mb
		if descending {
			less = !less
		}
		if less {
			return -1
		}
		return 1
	})
	return out
}

// FilterListings applies the AND of the filter's predicates to the listings,
// preserving input order.
func FilterListings(listings []domain.Listing, f domain.ListingFilter) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if f.Source != "" && f.Source != domain.SourceAll && l.Source != f.Source {
			continue
		}
		if f.OnlyProfitable && (l.MarginPercent == nil || *l.MarginPercent <= 0) {
			continue
		}
		if f.MinMargin != nil && (l.MarginPercent == nil || *l.MarginPercent < *f.MinMargin) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// BestOpportunity returns the opportunity with the maximal margin percent, or
// nil for an empty input. Entries with an undefined margin never win over a
// numeric one; if every margin is undefined the first entry is returned. Ties
// keep the earlier entry.
func BestOpportunity(opps []domain.Opportunity) *domain.Opportunity {
	if len(opps) == 0 {
		return nil
	}
	best := 0
	bestMargin, bestOK := opps[0].Margin()
	for i := 1; i < len(opps); i++ {
		m, ok := opps[i].Margin()
		if !ok {
			continue
		}
		if !bestOK || m > bestMargin {
			best, bestMargin, bestOK = i, m, true
		}
	}
	o := opps[best]
	return &o
}
