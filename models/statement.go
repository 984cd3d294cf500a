package models

// StatementRow is an ordered sequence of quarterly values for one line item,
// most recent period first. Gaps reported by the provider are carried as NaN
// by the reader; consumers treat them as zero.
type StatementRow []float64

// RawStatementTable holds the line items of one financial statement at
// quarterly cadence. Row names are the provider's labels, values are ordered
// newest-first. Period boundaries are consistent within a table but nothing
// is assumed across tables.
type RawStatementTable struct {
	Rows map[string]StatementRow
}

// Row returns the values for an exact row name, or nil when the row is
// absent. Alias-tolerant lookup lives in the processor.
func (t *RawStatementTable) Row(name string) StatementRow {
	if t == nil || t.Rows == nil {
		return nil
	}
	return t.Rows[name]
}

// Empty reports whether the table carries no rows at all.
func (t *RawStatementTable) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// StatementBundle groups the three quarterly statements fetched for one
// security. Any member may be empty when the provider has no data.
type StatementBundle struct {
	Income   *RawStatementTable
	CashFlow *RawStatementTable
	Balance  *RawStatementTable
}
