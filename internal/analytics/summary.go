package analytics

import (
	"github.com/m3movement/dealfinder/internal/domain"
)

// Summarize aggregates profit and margin statistics over the opportunities.
// It is defined only over non-empty input and returns domain.ErrEmptyInput
// otherwise; the division by zero is never coerced to 0 or NaN, callers must
// check emptiness first.
//
// Entries with an undefined margin contribute to the profit aggregates only.
// If every margin is undefined, the margin aggregates are 0, matching the
// avg_margin series convention.
func Summarize(opps []domain.Opportunity) (domain.Summary, error) {
	if len(opps) == 0 {
		return domain.Summary{}, domain.ErrEmptyInput
	}

	var s domain.Summary
	s.MaxProfit = opps[0].PotentialProfit

	var profitSum, marginSum float64
	var marginN int
	for _, o := range opps {
		profitSum += o.PotentialProfit
		if o.PotentialProfit > s.MaxProfit {
			s.MaxProfit = o.PotentialProfit
		}
		m, ok := o.Margin()
		if !ok {
			continue
		}
		marginSum += m
		if marginN == 0 || m > s.MaxMargin {
			s.MaxMargin = m
		}
		marginN++
	}

	s.AvgProfit = profitSum / float64(len(opps))
	if marginN > 0 {
		s.AvgMargin = marginSum / float64(marginN)
	}
	return s, nil
}
