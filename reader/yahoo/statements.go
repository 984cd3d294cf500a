package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode"

	"fundflow/logger"
	"fundflow/models"
)

type statementKind int

const (
	incomeStatement statementKind = iota
	cashFlowStatement
	balanceSheet
)

// quarterlyTypes lists every timeseries type the pipeline consumes and the
// statement each one belongs to. All types go out in a single request.
var quarterlyTypes = map[string]statementKind{
	"quarterlyTotalRevenue":     incomeStatement,
	"quarterlyOperatingRevenue": incomeStatement,

	"quarterlyOperatingCashFlow":        cashFlowStatement,
	"quarterlyCapitalExpenditure":       cashFlowStatement,
	"quarterlyStockBasedCompensation":   cashFlowStatement,
	"quarterlyIssuanceOfStock":          cashFlowStatement,
	"quarterlyRepurchaseOfCapitalStock": cashFlowStatement,
	"quarterlyCommonStockPayments":      cashFlowStatement,

	"quarterlyTotalDebt":                                  balanceSheet,
	"quarterlyLongTermDebt":                               balanceSheet,
	"quarterlyCashAndCashEquivalents":                     balanceSheet,
	"quarterlyCashCashEquivalentsAndShortTermInvestments": balanceSheet,
	"quarterlyStockholdersEquity":                         balanceSheet,
	"quarterlyCommonStockEquity":                          balanceSheet,
	"quarterlyTotalEquityGrossMinorityInterest":           balanceSheet,
}

// statementLookback bounds the timeseries query window. Two years of
// quarters comfortably covers the trailing twelve month window.
const statementLookback = 2 * 365 * 24 * time.Hour

type timeseriesEnvelope struct {
	Timeseries struct {
		Result []json.RawMessage `json:"result"`
		Error  *apiError         `json:"error"`
	} `json:"timeseries"`
}

type timeseriesMeta struct {
	Meta struct {
		Type []string `json:"type"`
	} `json:"meta"`
}

type timeseriesPoint struct {
	AsOfDate      string   `json:"asOfDate"`
	ReportedValue rawValue `json:"reportedValue"`
}

// Statements fetches the quarterly statement bundle for a ticker. Rows come
// back newest quarter first; quarters the provider reports as null carry NaN
// so missing data stays distinguishable from a reported zero.
func (c *Client) Statements(ctx context.Context, ticker string) (*models.StatementBundle, error) {
	types := make([]string, 0, len(quarterlyTypes))
	for t := range quarterlyTypes {
		types = append(types, t)
	}
	sort.Strings(types)

	now := time.Now()
	u := fmt.Sprintf("%s/%s?symbol=%s&type=%s&period1=%d&period2=%d&merge=false",
		c.config.Provider.FundamentalsURL,
		url.PathEscape(ticker),
		url.QueryEscape(ticker),
		url.QueryEscape(strings.Join(types, ",")),
		now.Add(-statementLookback).Unix(),
		now.Unix(),
	)

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetching statements for %s: %w", ticker, err)
	}

	var parsed timeseriesEnvelope
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing statements for %s: %w", ticker, err)
	}
	if parsed.Timeseries.Error != nil {
		return nil, fmt.Errorf("provider error for %s: %w", ticker, parsed.Timeseries.Error)
	}

	bundle := &models.StatementBundle{
		Income:   &models.RawStatementTable{Rows: map[string]models.StatementRow{}},
		CashFlow: &models.RawStatementTable{Rows: map[string]models.StatementRow{}},
		Balance:  &models.RawStatementTable{Rows: map[string]models.StatementRow{}},
	}

	for _, raw := range parsed.Timeseries.Result {
		var meta timeseriesMeta
		if err := json.Unmarshal(raw, &meta); err != nil || len(meta.Meta.Type) == 0 {
			continue
		}
		typeName := meta.Meta.Type[0]
		kind, ok := quarterlyTypes[typeName]
		if !ok {
			continue
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		series, ok := fields[typeName]
		if !ok {
			continue
		}

		var points []*timeseriesPoint
		if err := json.Unmarshal(series, &points); err != nil {
			continue
		}

		row := seriesToRow(points)
		if len(row) == 0 {
			continue
		}

		rowName := rowNameFor(typeName)
		switch kind {
		case incomeStatement:
			bundle.Income.Rows[rowName] = row
		case cashFlowStatement:
			bundle.CashFlow.Rows[rowName] = row
		case balanceSheet:
			bundle.Balance.Rows[rowName] = row
		}
	}

	logger.IncrementStatementFetch(len(body))
	c.log.WithComponent("yahoo_reader").WithFields(logger.Fields{
		"ticker":         ticker,
		"income_rows":    len(bundle.Income.Rows),
		"cash_flow_rows": len(bundle.CashFlow.Rows),
		"balance_rows":   len(bundle.Balance.Rows),
	}).Debug("statements fetched")

	return bundle, nil
}

// seriesToRow orders reported quarters newest first. Provider nulls and
// points without a raw value become NaN.
func seriesToRow(points []*timeseriesPoint) models.StatementRow {
	dated := make([]*timeseriesPoint, 0, len(points))
	for _, p := range points {
		if p != nil && p.AsOfDate != "" {
			dated = append(dated, p)
		}
	}
	sort.Slice(dated, func(i, j int) bool {
		return dated[i].AsOfDate > dated[j].AsOfDate
	})

	row := make(models.StatementRow, 0, len(dated))
	for _, p := range dated {
		if p.ReportedValue.Raw == nil {
			row = append(row, math.NaN())
			continue
		}
		row = append(row, *p.ReportedValue.Raw)
	}
	return row
}

// rowNameFor turns a timeseries type into the statement row name the
// aggregation aliases use: "quarterlyOperatingCashFlow" becomes
// "Operating Cash Flow".
func rowNameFor(typeName string) string {
	name := strings.TrimPrefix(typeName, "quarterly")
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
