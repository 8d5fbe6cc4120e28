package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3movement/dealfinder/internal/domain"
)

func TestSummarizeEmptyInput(t *testing.T) {
	_, err := Summarize(nil)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)

	_, err = Summarize([]domain.Opportunity{})
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestSummarize(t *testing.T) {
	got, err := Summarize([]domain.Opportunity{
		opp("a", 10, f64(5)),
		opp("b", 30, f64(15)),
	})
	require.NoError(t, err)
	assert.InDelta(t, 20.0, got.AvgProfit, 1e-9)
	assert.InDelta(t, 30.0, got.MaxProfit, 1e-9)
	assert.InDelta(t, 10.0, got.AvgMargin, 1e-9)
	assert.InDelta(t, 15.0, got.MaxMargin, 1e-9)
}

func TestSummarizeNegativeProfits(t *testing.T) {
	got, err := Summarize([]domain.Opportunity{
		opp("a", -40, f64(-20)),
		opp("b", -10, f64(-5)),
	})
	require.NoError(t, err)
	assert.InDelta(t, -25.0, got.AvgProfit, 1e-9)
	assert.InDelta(t, -10.0, got.MaxProfit, 1e-9)
	assert.InDelta(t, -12.5, got.AvgMargin, 1e-9)
	assert.InDelta(t, -5.0, got.MaxMargin, 1e-9)
}

// Undefined margins contribute profit only.
func TestSummarizeSkipsUndefinedMargins(t *testing.T) {
	got, err := Summarize([]domain.Opportunity{
		opp("a", 100, nil),
		opp("b", 20, f64(10)),
	})
	require.NoError(t, err)
	assert.InDelta(t, 60.0, got.AvgProfit, 1e-9)
	assert.InDelta(t, 100.0, got.MaxProfit, 1e-9)
	assert.InDelta(t, 10.0, got.AvgMargin, 1e-9)
	assert.InDelta(t, 10.0, got.MaxMargin, 1e-9)
}

func TestSummarizeAllMarginsUndefined(t *testing.T) {
	got, err := Summarize([]domain.Opportunity{
		opp("a", 5, nil),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.AvgMargin)
	assert.Equal(t, 0.0, got.MaxMargin)
	assert.Equal(t, 5.0, got.AvgProfit)
}
