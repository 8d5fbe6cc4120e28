package analytics

import (
	"fmt"

	"github.com/m3movement/dealfinder/internal/domain"
)

// BuildSeries projects one value per archived run, in run order, for charting.
// The result always has exactly len(history.Runs) points.
//
// For MetricAvgMargin the value is the mean of the defined margin percents
// across all of the run's listings; a run with no listings or only undefined
// margins yields 0, not NaN, so the series stays numerically well-formed.
// Callers that must distinguish "no data" from "zero margin" consult the
// listing-count series separately.
func BuildSeries(history domain.RunHistory, metric domain.SeriesMetric) ([]domain.SeriesPoint, error) {
	points := make([]domain.SeriesPoint, 0, len(history.Runs))
	for _, run := range history.Runs {
		var value float64
		switch metric {
		case domain.MetricSwappaCount:
			value = float64(run.TotalSwappa)
		case domain.MetricEbaySoldCount:
			value = float64(run.TotalEbaySold)
		case domain.MetricOpportunityCount:
			value = float64(len(run.Opportunities))
		case domain.MetricAvgMargin:
			value = avgListingMargin(run)
		default:
			return nil, fmt.Errorf("build series %q: %w", metric, domain.ErrUnknownMetric)
		}
		points = append(points, domain.SeriesPoint{RunID: run.RunID, Value: value})
	}
	return points, nil
}

func avgListingMargin(run domain.RunSnapshot) float64 {
	var sum float64
	var n int
	for _, l := range run.ListingsBySource(domain.SourceAll) {
		if l.MarginPercent == nil {
			continue
		}
		sum += *l.MarginPercent
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
