package models

import "time"

// NormalizedSnapshot is the terminal artifact of the pipeline: one flat
// record per security with TTM aggregates, balance-sheet figures and
// sanitized valuation inputs, all monetary values in the reference currency.
// It is never mutated after assembly.
type NormalizedSnapshot struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	MarketCap float64 `json:"market_cap"`

	// Financials TTM
	RevenueTTM float64 `json:"revenue_ttm"`
	OCFTTM     float64 `json:"ocf_ttm"`
	CapexTTM   float64 `json:"capex_ttm"`
	SBCTTM     float64 `json:"sbc_ttm"`
	BuybackTTM float64 `json:"buyback_ttm"`

	// Balance sheet, most recent period
	TotalDebt          float64 `json:"total_debt"`
	CashAndEquivalents float64 `json:"cash_and_equivalents"`
	BookValue          float64 `json:"book_value"`
	SharesOutstanding  float64 `json:"shares_outstanding"`

	// Estimates
	Beta           float64 `json:"beta"`
	GrowthEstimate float64 `json:"analyst_growth_estimate"`
	ForwardEPS     float64 `json:"forward_eps"`
	DividendYield  float64 `json:"dividend_yield"`

	// Metadata
	SectorType  string `json:"sector_type"`
	Currency    string `json:"currency"`
	LastUpdated string `json:"last_updated"`
}

// Manifest indexes a run for downstream consumers: each list name maps to
// its member tickers as loaded, independent of per-security outcomes.
type Manifest struct {
	RunID       string              `json:"run_id"`
	Lists       map[string][]string `json:"lists"`
	LastUpdated string              `json:"last_updated"`
}

// TimestampFormat is the wire format for generation timestamps.
const TimestampFormat = "2006-01-02T15:04:05Z"

// Timestamp renders t in UTC using the manifest and snapshot wire format.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
