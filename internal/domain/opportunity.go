package domain

// Opportunity is a precomputed cross-market buy/sell pairing: a buy-side
// listing matched against an eBay sold-price average. BuyProductName is the
// key used when matching opportunities across runs.
type Opportunity struct {
	BuyProductName   string   `json:"buy_product_name"`
	BuySource        string   `json:"buy_source,omitempty"`
	BuyPrice         float64  `json:"buy_price"`
	BuyURL           string   `json:"buy_url"`
	EbayAvgSoldPrice float64  `json:"ebay_avg_sold_price"`
	EbaySoldCount    int      `json:"ebay_sold_count"`
	EbayPriceRange   string   `json:"ebay_price_range"`
	SampleEbayURLs   []string `json:"sample_ebay_urls,omitempty"`

	// PotentialProfit = EbayAvgSoldPrice - BuyPrice. May be negative.
	PotentialProfit float64 `json:"potential_profit"`

	// MarginPercent = PotentialProfit / BuyPrice * 100. Nil when BuyPrice is
	// zero or negative, where the ratio is undefined.
	MarginPercent *float64 `json:"margin_percent"`
}

// Margin returns the margin percent and whether it is defined.
func (o Opportunity) Margin() (float64, bool) {
	if o.MarginPercent == nil {
		return 0, false
	}
	return *o.MarginPercent, true
}
