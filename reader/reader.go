// Package reader defines the provider capability consumed by the pipeline
// and hosts its implementations.
package reader

import (
	"context"

	"fundflow/models"
)

// Source is the external data provider for one run. Implementations fetch
// raw per-company disclosures keyed by security identifier; every method may
// fail for an individual security without affecting others.
type Source interface {
	// Info returns the point-in-time quote/profile snapshot for a ticker.
	Info(ctx context.Context, ticker string) (*models.InfoSnapshot, error)

	// Statements returns the quarterly income, cash-flow and balance-sheet
	// tables for a ticker. Individual tables may be empty.
	Statements(ctx context.Context, ticker string) (*models.StatementBundle, error)

	// ExchangeRate returns the spot rate "1 reference-currency unit = X
	// units of currency". The value is only valid for the lifetime of the
	// call; nothing is cached across securities.
	ExchangeRate(ctx context.Context, currency string) (float64, error)
}
