package processor

import (
	"context"

	"fundflow/logger"
	"fundflow/models"
)

// adrRateThreshold guards the ADR heuristic: when the exchange rate
// magnitude is large the provider's per-share figures are usually quoted in
// the local currency, so EPS is converted as well. This is an approximate
// fix, not a guaranteed-correct conversion.
const adrRateThreshold = 5.0

// RateFetcher is the spot exchange-rate capability of the provider:
// it returns how many local-currency units one reference-currency unit buys.
type RateFetcher interface {
	ExchangeRate(ctx context.Context, currency string) (float64, error)
}

// CurrencyNormalizer reconciles a security's statement currency with the
// pipeline's reference currency.
type CurrencyNormalizer struct {
	fx        RateFetcher
	reference string
	log       *logger.Log
}

func NewCurrencyNormalizer(fx RateFetcher, reference string) *CurrencyNormalizer {
	return &CurrencyNormalizer{
		fx:        fx,
		reference: reference,
		log:       logger.GetLogger(),
	}
}

// Reference returns the reference currency code.
func (c *CurrencyNormalizer) Reference() string {
	return c.reference
}

// Resolve determines the reporting currency of a security and the conversion
// rate to apply. Securities reporting in the reference currency get rate 1.0
// with no network access. Foreign currencies get a spot rate from the
// provider; lookup failures and non-positive rates fall back to 1.0 so that
// an unconverted figure is preferred over a hard failure.
func (c *CurrencyNormalizer) Resolve(ctx context.Context, info *models.InfoSnapshot) (string, float64) {
	currency := info.FinancialCurrency
	if currency == "" {
		currency = c.reference
	}
	if currency == c.reference {
		return currency, 1.0
	}

	log := c.log.WithComponent("currency").WithFields(logger.Fields{"currency": currency})

	rate, err := c.fx.ExchangeRate(ctx, currency)
	if err != nil {
		log.WithError(err).Warn("exchange rate lookup failed, falling back to rate 1.0")
		return currency, 1.0
	}
	if rate <= 0 {
		log.WithFields(logger.Fields{"rate": rate}).Warn("non-positive exchange rate, falling back to rate 1.0")
		return currency, 1.0
	}
	return currency, rate
}

// Convert translates a monetary aggregate from the local reporting currency
// into the reference currency.
func (c *CurrencyNormalizer) Convert(value, rate float64) float64 {
	if rate == 0 {
		return value
	}
	return value / rate
}

// ConvertEPS applies the ADR heuristic: per-share figures are assumed to be
// reference-currency-denominated already and are converted only when the
// rate magnitude marks an obvious local-currency quote.
func (c *CurrencyNormalizer) ConvertEPS(eps, rate float64) float64 {
	if rate > adrRateThreshold {
		return eps / rate
	}
	return eps
}
