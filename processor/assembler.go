package processor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	appconfig "fundflow/config"
	"fundflow/internal/symbols"
	"fundflow/logger"
	"fundflow/models"
	"fundflow/reader"
)

// Rejection reasons. Both are terminal per-security outcomes signaled to the
// caller; neither aborts a run.
var (
	// ErrNoPrice marks a security whose info snapshot has no resolvable
	// quote price; statements are not even fetched for it.
	ErrNoPrice = errors.New("no price in info snapshot")

	// ErrZeroRevenue marks a fully assembled snapshot rejected under the
	// discard policy because its TTM revenue is zero.
	ErrZeroRevenue = errors.New("zero TTM revenue")
)

// Assembler orchestrates the normalization pipeline for one security at a
// time: statement access, TTM aggregation, currency reconciliation, sector
// classification and input sanitization, producing one NormalizedSnapshot
// or a rejection.
type Assembler struct {
	source   reader.Source
	currency *CurrencyNormalizer
	policy   string
	log      *logger.Log
	now      func() time.Time
}

func NewAssembler(cfg *appconfig.Config, source reader.Source) *Assembler {
	return &Assembler{
		source:   source,
		currency: NewCurrencyNormalizer(source, cfg.Pipeline.ReferenceCurrency),
		policy:   cfg.Pipeline.ZeroRevenuePolicy,
		log:      logger.GetLogger(),
		now:      time.Now,
	}
}

// Assemble builds the normalized valuation snapshot for one ticker. Any
// provider failure or validation rejection returns a nil snapshot with the
// reason; a partial snapshot is never produced.
func (a *Assembler) Assemble(ctx context.Context, ticker string) (*models.NormalizedSnapshot, error) {
	ticker = symbols.Canonicalize(ticker)
	log := a.log.WithComponent("assembler").WithFields(logger.Fields{"ticker": ticker})

	info, err := a.source.Info(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetching info: %w", err)
	}

	price, ok := info.Price()
	if !ok {
		return nil, ErrNoPrice
	}

	stmts, err := a.source.Statements(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetching statements: %w", err)
	}

	currency, rate := a.currency.Resolve(ctx, info)

	revenue := a.currency.Convert(TTMOf(stmts.Income, RevenueAliases), rate)
	ocf := a.currency.Convert(TTMOf(stmts.CashFlow, OCFAliases), rate)
	// Capex and buybacks are reported as negative outflows; the snapshot
	// carries them as non-negative spend.
	capex := math.Abs(a.currency.Convert(TTMOf(stmts.CashFlow, CapexAliases), rate))
	sbc := a.currency.Convert(TTMOf(stmts.CashFlow, SBCAliases), rate)
	buyback := math.Abs(a.currency.Convert(TTMOf(stmts.CashFlow, BuybackAliases), rate))

	totalDebt := a.currency.Convert(LatestValue(stmts.Balance, TotalDebtAliases), rate)
	cash := a.currency.Convert(LatestValue(stmts.Balance, CashAliases), rate)
	bookValue := a.currency.Convert(LatestValue(stmts.Balance, BookValueAliases), rate)

	sector := ClassifySector(info.Sector, info.Industry)
	marketCap := models.FloatOr(info.MarketCap, 0)

	growth := EstimateGrowth(GrowthInputs{
		TrailingPE:    info.TrailingPE,
		PEGRatio:      info.PEGRatio,
		RevenueGrowth: info.RevenueGrowth,
		Sector:        sector,
		MarketCap:     marketCap,
	})
	beta := SanitizeBeta(info.Beta, sector, marketCap)

	snapshot := &models.NormalizedSnapshot{
		Ticker:    ticker,
		Name:      info.Name(),
		Price:     price,
		MarketCap: marketCap,

		RevenueTTM: revenue,
		OCFTTM:     ocf,
		CapexTTM:   capex,
		SBCTTM:     sbc,
		BuybackTTM: buyback,

		TotalDebt:          totalDebt,
		CashAndEquivalents: cash,
		BookValue:          bookValue,
		SharesOutstanding:  models.FloatOr(info.SharesOutstanding, 0),

		Beta:           beta,
		GrowthEstimate: growth,
		ForwardEPS:     a.currency.ConvertEPS(models.FloatOr(info.ForwardEPS, 0), rate),
		DividendYield:  models.FloatOr(info.DividendYield, 0),

		SectorType:  sector,
		Currency:    a.currency.Reference(),
		LastUpdated: models.Timestamp(a.now()),
	}

	if snapshot.RevenueTTM == 0 {
		if a.policy == appconfig.ZeroRevenueDiscard {
			return nil, ErrZeroRevenue
		}
		log.WithFields(logger.Fields{"statement_currency": currency}).Warn("snapshot has zero TTM revenue, statement fetch may be incomplete")
	}

	return snapshot, nil
}
