// Package snapshot is the data source for the analytics engine: it owns the
// on-disk representation written by the scraper (scraper_data.json), decodes
// it into the domain model in a single step that materializes every
// documented default up front, and polls the file for changes. The engine
// itself never touches this package; it only sees the decoded RunHistory.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/m3movement/dealfinder/internal/analytics"
	"github.com/m3movement/dealfinder/internal/domain"
)

// Document is the decoded scraper data file: the live top-level snapshot plus
// the archived run history.
type Document struct {
	LastUpdated  string            `json:"last_updated"`
	RunCount     int               `json:"run_count"`
	TotalTracked int               `json:"total_tracked"`
	History      domain.RunHistory `json:"history"`
}

// Raw wire types. Optional numerics are pointers so that "absent" is
// distinguishable from zero; Decode substitutes the documented defaults in
// one place instead of at every read site.

type rawListing struct {
	Name            string   `json:"name"`
	Price           string   `json:"price"`
	PriceNumeric    *float64 `json:"price_numeric"`
	URL             string   `json:"url"`
	Source          string   `json:"source"`
	EbayAvgSold     *float64 `json:"ebay_avg_sold"`
	EbaySoldCount   *int     `json:"ebay_sold_count"`
	EbayPriceRange  string   `json:"ebay_price_range"`
	PotentialProfit *float64 `json:"potential_profit"`
	MarginPercent   *float64 `json:"margin_percent"`
}

type rawOpportunity struct {
	BuyProductName   string   `json:"buy_product_name"`
	BuySource        string   `json:"buy_source"`
	BuyPrice         *float64 `json:"buy_price"`
	BuyURL           string   `json:"buy_url"`
	EbayAvgSoldPrice *float64 `json:"ebay_avg_sold_price"`
	EbaySoldCount    *int     `json:"ebay_sold_count"`
	EbayPriceRange   string   `json:"ebay_price_range"`
	SampleEbayURLs   []string `json:"sample_ebay_urls"`
	PotentialProfit  *float64 `json:"potential_profit"`
	MarginPercent    *float64 `json:"margin_percent"`
}

type rawRun struct {
	RunID            *int             `json:"run_id"`
	Timestamp        string           `json:"timestamp"`
	SwappaProducts   []rawListing     `json:"swappa_products"`
	NeweggProducts   []rawListing     `json:"newegg_products"`
	EbaySoldProducts []rawListing     `json:"ebay_sold_products"`
	Opportunities    []rawOpportunity `json:"arbitrage_opportunities"`
	TotalSwappa      *int             `json:"total_swappa"`
	TotalNewegg      *int             `json:"total_newegg"`
	TotalEbaySold    *int             `json:"total_ebay_sold"`
	BestOpportunity  *rawOpportunity  `json:"best_opportunity"`
}

type rawDocument struct {
	LastUpdated   string           `json:"last_updated"`
	RunCount      *int             `json:"run_count"`
	TotalTracked  *int             `json:"total_tracked"`
	Newegg        []rawListing     `json:"newegg_products"`
	Swappa        []rawListing     `json:"swappa_products"`
	Ebay          []rawListing     `json:"ebay_products"`
	Opportunities []rawOpportunity `json:"arbitrage_opportunities"`
	RunHistory    []rawRun         `json:"run_history"`
}

// Decode parses a scraper data document. Missing optional fields become their
// documented defaults (0, nil, empty slice); cached totals are recomputed
// from the listing slices when absent; a missing best_opportunity is derived
// from the run's opportunities. Only malformed JSON is an error.
func Decode(data []byte) (Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("snapshot: decode: %w", err)
	}

	doc := Document{
		LastUpdated:  raw.LastUpdated,
		RunCount:     intOr(raw.RunCount, 0),
		TotalTracked: intOr(raw.TotalTracked, 0),
	}

	doc.History.Runs = make([]domain.RunSnapshot, 0, len(raw.RunHistory))
	for _, r := range raw.RunHistory {
		doc.History.Runs = append(doc.History.Runs, decodeRun(r))
	}

	// The live top-level listing/opportunity fields form the current, possibly
	// not yet archived, snapshot.
	current := decodeRun(rawRun{
		RunID:          raw.RunCount,
		Timestamp:      raw.LastUpdated,
		SwappaProducts: raw.Swappa,
		NeweggProducts: raw.Newegg,
		// Top-level ebay_products are the sold references used for matching.
		EbaySoldProducts: raw.Ebay,
		Opportunities:    raw.Opportunities,
	})
	doc.History.Current = &current

	return doc, nil
}

func decodeRun(r rawRun) domain.RunSnapshot {
	run := domain.RunSnapshot{
		RunID:            intOr(r.RunID, 0),
		Timestamp:        r.Timestamp,
		SwappaProducts:   decodeListings(r.SwappaProducts, domain.SourceSwappa),
		NeweggProducts:   decodeListings(r.NeweggProducts, domain.SourceNewegg),
		EbaySoldProducts: decodeListings(r.EbaySoldProducts, domain.SourceEbay),
	}

	run.Opportunities = make([]domain.Opportunity, 0, len(r.Opportunities))
	for _, o := range r.Opportunities {
		run.Opportunities = append(run.Opportunities, decodeOpportunity(o))
	}

	// Cached totals must equal the listing counts; recompute rather than
	// trusting a possibly absent or stale field.
	run.TotalSwappa = len(run.SwappaProducts)
	run.TotalNewegg = len(run.NeweggProducts)
	run.TotalEbaySold = len(run.EbaySoldProducts)

	if r.BestOpportunity != nil {
		best := decodeOpportunity(*r.BestOpportunity)
		run.BestOpportunity = &best
	} else {
		run.BestOpportunity = analytics.BestOpportunity(run.Opportunities)
	}

	return run
}

func decodeListings(raw []rawListing, src domain.Source) []domain.Listing {
	out := make([]domain.Listing, 0, len(raw))
	for _, rl := range raw {
		out = append(out, decodeListing(rl, src))
	}
	return out
}

func decodeListing(r rawListing, fallbackSource domain.Source) domain.Listing {
	l := domain.Listing{
		Name:           r.Name,
		Price:          r.Price,
		PriceNumeric:   floatOr(r.PriceNumeric, 0),
		URL:            r.URL,
		Source:         fallbackSource,
		EbayAvgSold:    r.EbayAvgSold,
		EbaySoldCount:  intOr(r.EbaySoldCount, 0),
		EbayPriceRange: r.EbayPriceRange,
	}
	if src := domain.ParseSource(r.Source); src != domain.SourceAll {
		l.Source = src
	}

	// Derive margin and profit when the file predates these fields; the
	// guard in ComputeMargin keeps them nil exactly when no eBay match
	// exists or the price is unusable.
	l.MarginPercent = r.MarginPercent
	if l.MarginPercent == nil {
		l.MarginPercent = analytics.ComputeMargin(l.PriceNumeric, l.EbayAvgSold)
	}
	l.PotentialProfit = r.PotentialProfit
	if l.PotentialProfit == nil {
		l.PotentialProfit = analytics.ComputeProfit(l.PriceNumeric, l.EbayAvgSold)
	}
	return l
}

func decodeOpportunity(r rawOpportunity) domain.Opportunity {
	o := domain.Opportunity{
		BuyProductName:   r.BuyProductName,
		BuySource:        r.BuySource,
		BuyPrice:         floatOr(r.BuyPrice, 0),
		BuyURL:           r.BuyURL,
		EbayAvgSoldPrice: floatOr(r.EbayAvgSoldPrice, 0),
		EbaySoldCount:    intOr(r.EbaySoldCount, 0),
		EbayPriceRange:   r.EbayPriceRange,
		SampleEbayURLs:   r.SampleEbayURLs,
	}
	if o.SampleEbayURLs == nil {
		o.SampleEbayURLs = []string{}
	}

	if r.PotentialProfit != nil {
		o.PotentialProfit = *r.PotentialProfit
	} else {
		o.PotentialProfit = o.EbayAvgSoldPrice - o.BuyPrice
	}

	o.MarginPercent = r.MarginPercent
	if o.MarginPercent == nil {
		avg := o.EbayAvgSoldPrice
		o.MarginPercent = analytics.ComputeMargin(o.BuyPrice, &avg)
	}
	return o
}

// CapHistory drops the oldest runs so that at most maxRuns remain. A maxRuns
// of zero or less leaves the history unbounded.
func CapHistory(h domain.RunHistory, maxRuns int) domain.RunHistory {
	if maxRuns <= 0 || len(h.Runs) <= maxRuns {
		return h
	}
	h.Runs = h.Runs[len(h.Runs)-maxRuns:]
	return h
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
