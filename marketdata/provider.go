// Package marketdata fetches quotes, option chains and reference rates from
// external providers. The screener and labeling pipelines consume only the
// interfaces below, so providers can be swapped out in tests.
package marketdata

import (
	"time"

	"github.com/optionlabs/screener/models"
)

// Provider is the market-data collaborator consumed by the pipelines.
type Provider interface {
	// StockMetadata returns one entry per ticker that could be resolved to a
	// live quote with a non-zero price. Tickers that fail are simply absent.
	StockMetadata(tickers []string) map[string]models.StockMetadataEntry

	// ExpirationDates lists the available option expiration dates for a
	// ticker as YYYY-MM-DD strings.
	ExpirationDates(ticker string) ([]string, error)

	// OptionChainForDate returns the call side of the chain expiring on the
	// given date. Rows carry identity and market fields only; Greeks and
	// metrics are filled in by the caller.
	OptionChainForDate(ticker string, date string) ([]models.ContractRow, error)

	// HistoricalCloses returns daily closing prices keyed by YYYY-MM-DD over
	// [start, end].
	HistoricalCloses(ticker string, start time.Time, end time.Time) (map[string]float64, error)
}

// RateProvider supplies the risk-free rate used by the Greeks engine.
// Implementations must fall back to a sane default instead of failing.
type RateProvider interface {
	RiskFreeRate() float64
}
