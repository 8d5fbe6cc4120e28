package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3movement/dealfinder/internal/domain"
)

func TestBuildSeriesCounts(t *testing.T) {
	history := domain.RunHistory{Runs: []domain.RunSnapshot{
		{RunID: 1, TotalSwappa: 10, TotalEbaySold: 30, Opportunities: []domain.Opportunity{opp("a", 1, f64(1))}},
		{RunID: 2, TotalSwappa: 12, TotalEbaySold: 28},
		{RunID: 3, TotalSwappa: 9, TotalEbaySold: 31, Opportunities: []domain.Opportunity{opp("a", 1, f64(1)), opp("b", 2, f64(2))}},
	}}

	tests := []struct {
		metric domain.SeriesMetric
		want   []float64
	}{
		{domain.MetricSwappaCount, []float64{10, 12, 9}},
		{domain.MetricEbaySoldCount, []float64{30, 28, 31}},
		{domain.MetricOpportunityCount, []float64{1, 0, 2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			got, err := BuildSeries(history, tt.metric)
			require.NoError(t, err)
			require.Len(t, got, len(history.Runs))
			for i, p := range got {
				assert.Equal(t, history.Runs[i].RunID, p.RunID)
				assert.Equal(t, tt.want[i], p.Value)
			}
		})
	}
}

func TestBuildSeriesAvgMargin(t *testing.T) {
	history := domain.RunHistory{Runs: []domain.RunSnapshot{
		{
			RunID: 1,
			SwappaProducts: []domain.Listing{
				listing("a", domain.SourceSwappa, f64(10)),
				listing("b", domain.SourceSwappa, nil),
			},
			NeweggProducts: []domain.Listing{
				listing("c", domain.SourceNewegg, f64(30)),
			},
		},
		// No listings at all: value must be 0, not NaN.
		{RunID: 2},
		// Only undefined margins: also 0.
		{
			RunID: 3,
			SwappaProducts: []domain.Listing{
				listing("d", domain.SourceSwappa, nil),
			},
		},
	}}

	got, err := BuildSeries(history, domain.MetricAvgMargin)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 20.0, got[0].Value, 1e-9) // mean of 10 and 30, nil skipped
	assert.Equal(t, 0.0, got[1].Value)
	assert.Equal(t, 0.0, got[2].Value)
}

func TestBuildSeriesLengthMatchesRuns(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		runs := make([]domain.RunSnapshot, n)
		for i := range runs {
			runs[i].RunID = i + 1
		}
		got, err := BuildSeries(domain.RunHistory{Runs: runs}, domain.MetricOpportunityCount)
		require.NoError(t, err)
		assert.Len(t, got, n)
	}
}

func TestBuildSeriesUnknownMetric(t *testing.T) {
	_, err := BuildSeries(domain.RunHistory{Runs: []domain.RunSnapshot{{RunID: 1}}}, "bogus")
	assert.ErrorIs(t, err, domain.ErrUnknownMetric)
}
