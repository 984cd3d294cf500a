package processor

import (
	"math"

	"fundflow/models"
)

// Alias tables for the statement rows the pipeline reads. Providers rename
// line items between report generations, so each logical field carries an
// ordered list of acceptable row names; the first match wins and nothing is
// merged across aliases.
var (
	RevenueAliases = []string{"Total Revenue", "Operating Revenue"}
	OCFAliases     = []string{"Operating Cash Flow", "Total Cash From Operating Activities"}
	CapexAliases   = []string{"Capital Expenditure", "Capital Expenditures"}
	SBCAliases     = []string{"Stock Based Compensation", "Issuance Of Stock"}
	BuybackAliases = []string{"Repurchase Of Capital Stock", "Common Stock Payments"}

	TotalDebtAliases = []string{"Total Debt", "Long Term Debt"}
	CashAliases      = []string{"Cash And Cash Equivalents", "Cash Cash Equivalents And Short Term Investments"}
	BookValueAliases = []string{"Stockholders Equity", "Common Stock Equity", "Total Equity Gross Minority Interest"}
)

// ttmWindow is the number of most recent quarters summed into a
// trailing-twelve-month aggregate.
const ttmWindow = 4

// ResolveRow returns the period values of the first alias present in the
// table, or nil when the table is absent or none of the aliases match.
func ResolveRow(table *models.RawStatementTable, aliases []string) models.StatementRow {
	if table.Empty() {
		return nil
	}
	for _, name := range aliases {
		if row := table.Row(name); row != nil {
			return row
		}
	}
	return nil
}

// TTM sums the four most recent quarterly values of a row, newest first.
// Missing values inside the window count as zero, as does a wholly absent
// row. Rows shorter than four quarters produce a partial, zero-padded sum;
// callers accept that silently.
func TTM(row models.StatementRow) float64 {
	sum := 0.0
	for i, v := range row {
		if i >= ttmWindow {
			break
		}
		if math.IsNaN(v) {
			continue
		}
		sum += v
	}
	return sum
}

// TTMOf resolves a row by alias and aggregates it in one step.
func TTMOf(table *models.RawStatementTable, aliases []string) float64 {
	return TTM(ResolveRow(table, aliases))
}

// LatestValue returns the most recent period value of the first matching
// alias, or zero when no alias resolves or the newest value is missing.
func LatestValue(table *models.RawStatementTable, aliases []string) float64 {
	row := ResolveRow(table, aliases)
	if len(row) == 0 || math.IsNaN(row[0]) {
		return 0
	}
	return row[0]
}
