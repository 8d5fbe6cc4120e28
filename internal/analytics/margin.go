// Package analytics is the run-history analytics engine: pure functions over
// listings, opportunities, and run snapshots that produce the derived views
// consumed by the HTTP layer. Every function in this package is referentially
// transparent: no I/O, no mutation of inputs, newly allocated outputs. A
// RunHistory handed to these functions can safely be shared across concurrent
// dashboard sessions.
package analytics

// ComputeMargin returns the margin percent (ebayAvg - buyPrice) / buyPrice *
// 100, unrounded. It returns nil when there is no eBay sold average or when
// buyPrice is zero or negative, where the ratio is undefined. Rounding for
// display belongs to the presentation layer.
func ComputeMargin(buyPrice float64, ebayAvg *float64) *float64 {
	if ebayAvg == nil || buyPrice <= 0 {
		return nil
	}
	m := (*ebayAvg - buyPrice) / buyPrice * 100
	return &m
}

// ComputeProfit returns the absolute dollar difference ebayAvg - buyPrice,
// which may be negative. It mirrors ComputeMargin's guard: nil when there is
// no eBay sold average or buyPrice is zero or negative.
func ComputeProfit(buyPrice float64, ebayAvg *float64) *float64 {
	if ebayAvg == nil || buyPrice <= 0 {
		return nil
	}
	p := *ebayAvg - buyPrice
	return &p
}
