package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestComputeMargin(t *testing.T) {
	tests := []struct {
		name     string
		buyPrice float64
		ebayAvg  *float64
		want     *float64
	}{
		{"positive margin", 100, f64(140), f64(40)},
		{"negative margin", 200, f64(150), f64(-25)},
		{"zero buy price", 0, f64(150), nil},
		{"negative buy price", -10, f64(150), nil},
		{"missing ebay average", 100, nil, nil},
		{"zero buy price and missing average", 0, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeMargin(tt.buyPrice, tt.ebayAvg)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestComputeProfit(t *testing.T) {
	tests := []struct {
		name     string
		buyPrice float64
		ebayAvg  *float64
		want     *float64
	}{
		{"positive profit", 100, f64(140), f64(40)},
		{"negative profit", 200, f64(150), f64(-50)},
		{"zero buy price", 0, f64(150), nil},
		{"missing ebay average", 100, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeProfit(tt.buyPrice, tt.ebayAvg)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

// For any buyPrice > 0, profit == margin / 100 * buyPrice.
func TestMarginProfitConsistency(t *testing.T) {
	prices := []float64{0.01, 1, 37.5, 100, 329, 1999.99}
	avgs := []float64{0, 0.5, 25, 100, 450.25, 5000}

	for _, buy := range prices {
		for _, avg := range avgs {
			margin := ComputeMargin(buy, &avg)
			profit := ComputeProfit(buy, &avg)
			require.NotNil(t, margin)
			require.NotNil(t, profit)
			assert.InDelta(t, *profit, *margin/100*buy, 1e-9,
				"buy=%v avg=%v", buy, avg)
		}
	}
}
