package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"fundflow/logger"
	"fundflow/models"
)

// infoModules are the quoteSummary modules that together cover every field
// of the info snapshot.
const infoModules = "price,summaryDetail,financialData,defaultKeyStatistics,assetProfile"

// rawValue is Yahoo's number envelope: {"raw": 1.23, "fmt": "1.23"}.
// Absent fields decode to a nil Raw.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				ShortName          string   `json:"shortName"`
				LongName           string   `json:"longName"`
				RegularMarketPrice rawValue `json:"regularMarketPrice"`
				MarketCap          rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				PreviousClose rawValue `json:"previousClose"`
				TrailingPE    rawValue `json:"trailingPE"`
				Beta          rawValue `json:"beta"`
				DividendYield rawValue `json:"dividendYield"`
			} `json:"summaryDetail"`
			FinancialData struct {
				CurrentPrice      rawValue `json:"currentPrice"`
				RevenueGrowth     rawValue `json:"revenueGrowth"`
				FinancialCurrency string   `json:"financialCurrency"`
			} `json:"financialData"`
			DefaultKeyStatistics struct {
				SharesOutstanding rawValue `json:"sharesOutstanding"`
				PegRatio          rawValue `json:"pegRatio"`
				ForwardEps        rawValue `json:"forwardEps"`
			} `json:"defaultKeyStatistics"`
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Info fetches the point-in-time quote/profile snapshot for a ticker.
func (c *Client) Info(ctx context.Context, ticker string) (*models.InfoSnapshot, error) {
	u := fmt.Sprintf("%s/%s?modules=%s", c.config.Provider.QuoteURL, url.PathEscape(ticker), url.QueryEscape(infoModules))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetching info for %s: %w", ticker, err)
	}

	var parsed quoteSummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing info for %s: %w", ticker, err)
	}
	if parsed.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("provider error for %s: %w", ticker, parsed.QuoteSummary.Error)
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("empty info result for %s", ticker)
	}

	r := parsed.QuoteSummary.Result[0]
	info := &models.InfoSnapshot{
		ShortName:         r.Price.ShortName,
		LongName:          r.Price.LongName,
		CurrentPrice:      firstOf(r.FinancialData.CurrentPrice, r.Price.RegularMarketPrice),
		PreviousClose:     r.SummaryDetail.PreviousClose.Raw,
		MarketCap:         r.Price.MarketCap.Raw,
		SharesOutstanding: r.DefaultKeyStatistics.SharesOutstanding.Raw,
		TrailingPE:        r.SummaryDetail.TrailingPE.Raw,
		PEGRatio:          r.DefaultKeyStatistics.PegRatio.Raw,
		RevenueGrowth:     r.FinancialData.RevenueGrowth.Raw,
		ForwardEPS:        r.DefaultKeyStatistics.ForwardEps.Raw,
		DividendYield:     r.SummaryDetail.DividendYield.Raw,
		Beta:              r.SummaryDetail.Beta.Raw,
		Sector:            r.AssetProfile.Sector,
		Industry:          r.AssetProfile.Industry,
		FinancialCurrency: r.FinancialData.FinancialCurrency,
	}

	logger.IncrementInfoFetch(len(body))
	c.log.WithComponent("yahoo_reader").WithFields(logger.Fields{
		"ticker": ticker,
		"bytes":  len(body),
	}).Debug("info snapshot fetched")

	return info, nil
}

// firstOf returns the first populated raw value.
func firstOf(values ...rawValue) *float64 {
	for _, v := range values {
		if v.Raw != nil {
			return v.Raw
		}
	}
	return nil
}
