package domain

// MetricDelta holds the raw values of one counter in two runs and their
// difference (B minus A).
type MetricDelta struct {
	Name   string  `json:"name"`
	ValueA float64 `json:"value_a"`
	ValueB float64 `json:"value_b"`
	Delta  float64 `json:"delta"`
}

// ProductDiff reports one product's margin in each of two compared runs. A
// nil margin means the product was absent from that run (or its margin was
// undefined); the presentation layer renders it as "N/A".
type ProductDiff struct {
	BuyProductName string   `json:"buy_product_name"`
	MarginA        *float64 `json:"margin_a"`
	MarginB        *float64 `json:"margin_b"`
}

// RunComparison is the two-run diff produced by the analytics engine: one
// MetricDelta per counter plus a product-level margin diff over the union of
// product names from both runs.
type RunComparison struct {
	RunA     int           `json:"run_a"`
	RunB     int           `json:"run_b"`
	Metrics  []MetricDelta `json:"metrics"`
	Products []ProductDiff `json:"products"`
}

// SeriesMetric selects which per-run value a time series is built from.
type SeriesMetric string

const (
	MetricSwappaCount      SeriesMetric = "swappa_count"
	MetricEbaySoldCount    SeriesMetric = "ebay_sold_count"
	MetricOpportunityCount SeriesMetric = "opportunity_count"
	MetricAvgMargin        SeriesMetric = "avg_margin"
)

// SeriesPoint is one run's value in a time series.
type SeriesPoint struct {
	RunID int     `json:"run_id"`
	Value float64 `json:"value"`
}

// Summary aggregates profit and margin statistics over a non-empty set of
// opportunities.
type Summary struct {
	AvgProfit float64 `json:"avg_profit"`
	MaxProfit float64 `json:"max_profit"`
	AvgMargin float64 `json:"avg_margin"`
	MaxMargin float64 `json:"max_margin"`
}

// OpportunityQuery selects and orders opportunities. Nil thresholds fall
// back to the caller's configured defaults.
type OpportunityQuery struct {
	// MinProfit keeps opportunities whose potential profit is at least this
	// value (inclusive).
	MinProfit *float64

	// MinMargin keeps opportunities whose margin percent is at least this
	// value (inclusive). An undefined margin is excluded by any finite bound.
	MinMargin *float64

	// Descending orders by margin high-to-low when true, low-to-high when
	// false. Undefined margins always sort last.
	Descending bool
}

// ListingFilter selects listings by margin, profitability, and source. The
// predicates compose by logical AND and are independent, so the order of
// application never changes the result set.
type ListingFilter struct {
	// MinMargin keeps listings whose margin percent is at least this value.
	// A listing with no margin is treated as -infinity and excluded by any
	// finite bound. Nil disables the predicate.
	MinMargin *float64

	// OnlyProfitable keeps listings with a defined, strictly positive margin.
	OnlyProfitable bool

	// Source restricts to one marketplace; SourceAll (or empty) disables the
	// predicate.
	Source Source
}
