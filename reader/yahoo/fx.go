package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"fundflow/logger"
)

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

// ExchangeRate fetches the spot rate from the given currency to USD using
// the "{CUR}=X" chart symbol, e.g. JPY=X quotes JPY per USD.
func (c *Client) ExchangeRate(ctx context.Context, currency string) (float64, error) {
	symbol := strings.ToUpper(strings.TrimSpace(currency)) + "=X"
	u := fmt.Sprintf("%s/%s?interval=1d&range=1d", c.config.Provider.ChartURL, url.PathEscape(symbol))

	body, err := c.get(ctx, u)
	if err != nil {
		return 0, fmt.Errorf("fetching exchange rate %s: %w", symbol, err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("parsing exchange rate %s: %w", symbol, err)
	}
	if parsed.Chart.Error != nil {
		return 0, fmt.Errorf("provider error for %s: %w", symbol, parsed.Chart.Error)
	}
	if len(parsed.Chart.Result) == 0 {
		return 0, fmt.Errorf("empty chart result for %s", symbol)
	}

	rate := parsed.Chart.Result[0].Meta.RegularMarketPrice
	if rate <= 0 {
		return 0, fmt.Errorf("non-positive rate %.4f for %s", rate, symbol)
	}

	logger.IncrementFXLookup()
	c.log.WithComponent("yahoo_reader").WithFields(logger.Fields{
		"currency": currency,
		"rate":     rate,
	}).Debug("exchange rate fetched")

	return rate, nil
}
