package analytics

import (
	"fmt"
	"sort"

	"github.com/m3movement/dealfinder/internal/domain"
)

// CompareRuns diffs two run snapshots: for each counter it reports the raw
// pair of values and delta = runB - runA, and for each product name appearing
// in either run it reports the margin on both sides (nil where absent).
//
// Duplicate product names within one run resolve last-write-wins: the later
// opportunity in the run's ordering is the one compared. Comparing a run to
// itself returns domain.ErrInvalidComparison, since a self-comparison
// indicates a selection bug upstream rather than a meaningful zero diff.
func CompareRuns(runA, runB domain.RunSnapshot) (domain.RunComparison, error) {
	if runA.RunID == runB.RunID {
		return domain.RunComparison{}, fmt.Errorf("compare runs %d and %d: %w",
			runA.RunID, runB.RunID, domain.ErrInvalidComparison)
	}

	cmp := domain.RunComparison{
		RunA: runA.RunID,
		RunB: runB.RunID,
		Metrics: []domain.MetricDelta{
			metricDelta("total_swappa", float64(runA.TotalSwappa), float64(runB.TotalSwappa)),
			metricDelta("total_ebay_sold", float64(runA.TotalEbaySold), float64(runB.TotalEbaySold)),
			metricDelta("opportunity_count", float64(len(runA.Opportunities)), float64(len(runB.Opportunities))),
		},
	}

	byNameA := opportunitiesByName(runA.Opportunities)
	byNameB := opportunitiesByName(runB.Opportunities)

	names := make([]string, 0, len(byNameA)+len(byNameB))
	for name := range byNameA {
		names = append(names, name)
	}
	for name := range byNameB {
		if _, seen := byNameA[name]; !seen {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	cmp.Products = make([]domain.ProductDiff, 0, len(names))
	for _, name := range names {
		diff := domain.ProductDiff{BuyProductName: name}
		if o, ok := byNameA[name]; ok {
			diff.MarginA = o.MarginPercent
		}
		if o, ok := byNameB[name]; ok {
			diff.MarginB = o.MarginPercent
		}
		cmp.Products = append(cmp.Products, diff)
	}

	return cmp, nil
}

func metricDelta(name string, a, b float64) domain.MetricDelta {
	return domain.MetricDelta{Name: name, ValueA: a, ValueB: b, Delta: b - a}
}

// opportunitiesByName indexes opportunities by product name, last write wins.
func opportunitiesByName(opps []domain.Opportunity) map[string]domain.Opportunity {
	byName := make(map[string]domain.Opportunity, len(opps))
	for _, o := range opps {
		byName[o.BuyProductName] = o
	}
	return byName
}
