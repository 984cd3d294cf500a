package models

// InfoSnapshot is the point-in-time quote and profile data for one security.
// Every numeric field is optional; nil means the provider did not report it.
type InfoSnapshot struct {
	ShortName string
	LongName  string

	CurrentPrice  *float64
	PreviousClose *float64

	MarketCap         *float64
	SharesOutstanding *float64

	TrailingPE    *float64
	PEGRatio      *float64
	RevenueGrowth *float64
	ForwardEPS    *float64
	DividendYield *float64
	Beta          *float64

	Sector   string
	Industry string

	// FinancialCurrency is the reporting currency of the financial
	// statements, e.g. "USD" or "JPY". Empty when unreported.
	FinancialCurrency string
}

// Name returns the best available display name for the security.
func (i *InfoSnapshot) Name() string {
	if i.ShortName != "" {
		return i.ShortName
	}
	return i.LongName
}

// Price resolves the quote price, preferring the live price over the
// previous close. The second return is false when neither is available.
func (i *InfoSnapshot) Price() (float64, bool) {
	if i.CurrentPrice != nil && *i.CurrentPrice > 0 {
		return *i.CurrentPrice, true
	}
	if i.PreviousClose != nil && *i.PreviousClose > 0 {
		return *i.PreviousClose, true
	}
	return 0, false
}

// FloatOr dereferences an optional value, substituting def when absent.
func FloatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
