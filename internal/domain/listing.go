package domain

// Source identifies the marketplace a listing was scraped from.
type Source string

const (
	SourceNewegg Source = "Newegg"
	SourceSwappa Source = "Swappa"
	SourceEbay   Source = "eBay"

	// SourceAll is a filter sentinel meaning "no source restriction". It is
	// never stored on a Listing.
	SourceAll Source = "All"
)

// ParseSource normalizes a user-supplied source string. Unknown or empty
// values map to SourceAll so that filters degrade to "no restriction".
func ParseSource(s string) Source {
	switch s {
	case string(SourceNewegg):
		return SourceNewegg
	case string(SourceSwappa):
		return SourceSwappa
	case string(SourceEbay):
		return SourceEbay
	default:
		return SourceAll
	}
}

// Listing is a single marketplace product record from one scrape run. The
// eBay comparison fields are populated only when a matching eBay sold-average
// exists for the product; MarginPercent is nil exactly in the unmatched case.
type Listing struct {
	Name         string  `json:"name"`
	Price        string  `json:"price"` // raw display string as scraped, e.g. "$329.00"
	PriceNumeric float64 `json:"price_numeric"`
	URL          string  `json:"url"`
	Source       Source  `json:"source"`

	EbayAvgSold     *float64 `json:"ebay_avg_sold,omitempty"`
	EbaySoldCount   int      `json:"ebay_sold_count,omitempty"`
	EbayPriceRange  string   `json:"ebay_price_range,omitempty"`
	PotentialProfit *float64 `json:"potential_profit,omitempty"`
	MarginPercent   *float64 `json:"margin_percent,omitempty"`
}
