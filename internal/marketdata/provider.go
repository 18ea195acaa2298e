// Package marketdata resolves (date, strike, option kind) tuples to ordered
// intraday mid-price series sourced from the historical archives.
package marketdata

import "github.com/eddiefleurent/stamford_condor/internal/models"

// Provider is the price-series store contract.
//
// Load returns the series for one contract on one date. A missing archive or
// strike file is not an error: it yields an empty series, and callers treat
// an empty series as "no data" for that contract.
//
// Implementations must be safe for concurrent use - the engine may simulate
// several dates at once.
type Provider interface {
	Load(date string, strike int, kind models.OptionKind) (models.PriceSeries, error)

	// Dates lists the trading dates the store has archives for, sorted
	// ascending.
	Dates() ([]string, error)
}

type seriesKey struct {
	date   string
	strike int
	kind   models.OptionKind
}

// Ensure implementations satisfy Provider
var (
	_ Provider = (*ArchiveStore)(nil)
	_ Provider = (*Cache)(nil)
	_ Provider = (*Memory)(nil)
)
