// Package screener fans out option-chain fetches across tickers and
// expiration dates, prices each contract, and filters the combined table
// down to the ranked screening result.
package screener

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jinzhu/copier"

	"github.com/optionlabs/screener/logger"
	"github.com/optionlabs/screener/marketdata"
	"github.com/optionlabs/screener/models"
	"github.com/optionlabs/screener/options"
	"github.com/optionlabs/screener/storage"
	"github.com/optionlabs/screener/utils"
)

// Both fan-out levels are capped independently: a slow ticker can only hold
// its own pool slot, never starve the date workers of another ticker.
const MaxTickerWorkers = 5
const MaxDateWorkers = 5

// ErrNoData means the run had no usable input at all (no resolvable
// tickers). Partial failures never surface as this.
var ErrNoData = errors.New("no usable market data for configured tickers")

type Screener struct {
	Tickers  []string
	Criteria models.ScreenerCriteria
	Market   marketdata.Provider
	Rates    marketdata.RateProvider
	Store    storage.ObjectStore

	// Now is a clock override for tests; leave nil for wall time.
	Now func() time.Time
}

func NewScreener(tickers []string, criteria models.ScreenerCriteria, market marketdata.Provider, rates marketdata.RateProvider, store storage.ObjectStore) *Screener {
	return &Screener{
		Tickers:  tickers,
		Criteria: criteria,
		Market:   market,
		Rates:    rates,
		Store:    store,
	}
}

func (s *Screener) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// tickerResult is the typed outcome of one ticker's fetch-compute unit: rows
// and err are mutually exclusive, and both empty means the ticker had no
// chains in the date window. The distinction keeps "no result" and "error"
// visible to the coordinator instead of collapsing into a log line.
type tickerResult struct {
	ticker string
	rows   []models.ContractRow
	err    error
}

type dateResult struct {
	date string
	rows []models.ContractRow
	err  error
}

// ScreenOptions runs the full metadata, fetch-compute and filter pipeline.
// It returns the ranked table; when the criteria eliminate every row the
// table is empty and the diagnostics report per-predicate pass counts.
func (s *Screener) ScreenOptions() ([]models.ContractRow, *FilterDiagnostics, error) {
	logger.Infof("Fetching stock metadata for %v tickers...\n", len(s.Tickers))
	meta := s.Market.StockMetadata(s.Tickers)
	logger.Infof("Metadata fetched for %v stocks.\n", len(meta))
	if len(meta) == 0 {
		return nil, nil, ErrNoData
	}

	// One rate per run, passed by value into every worker.
	rate := s.riskFreeRate()
	today := utils.Midnight(s.now())
	logger.Infof("Scanning option chains expiring between %v and %v...\n",
		utils.FormatDate(today.AddDate(0, 0, s.Criteria.MinDays)),
		utils.FormatDate(today.AddDate(0, 0, s.Criteria.MaxDays)))

	combined := s.fetchAll(meta, rate, today)
	if len(combined) == 0 {
		logger.Infof("No option chains found in this date range.\n")
		return nil, nil, nil
	}
	logger.Infof("Found %v total option rows before filtering.\n", len(combined))

	filtered, diagnostics := Filter(combined, s.Criteria)
	logger.Infof("Found %v rows after filtering.\n", len(filtered))
	return filtered, diagnostics, nil
}

func (s *Screener) riskFreeRate() float64 {
	if s.Rates == nil {
		return marketdata.DefaultRiskFreeRate
	}
	return s.Rates.RiskFreeRate()
}

// fetchAll is the outer worker pool over tickers. Workers compute private
// row slices; the coordinator merges them after the join, so nothing here
// needs a lock.
func (s *Screener) fetchAll(meta map[string]models.StockMetadataEntry, rate float64, today time.Time) []models.ContractRow {
	sem := make(chan struct{}, MaxTickerWorkers)
	results := make(chan tickerResult, len(s.Tickers))
	var wg sync.WaitGroup
	for _, ticker := range s.Tickers {
		entry, ok := meta[ticker]
		if !ok {
			logger.Debugf("Skipping %v: no metadata this run\n", ticker)
			continue
		}
		wg.Add(1)
		go func(ticker string, entry models.StockMetadataEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			rows, err := s.optionChain(ticker, entry, rate, today)
			results <- tickerResult{ticker: ticker, rows: rows, err: err}
		}(ticker, entry)
	}
	wg.Wait()
	close(results)

	var combined []models.ContractRow
	for res := range results {
		if res.err != nil {
			logger.Errorf("Error processing %v: %v\n", res.ticker, res.err)
			continue
		}
		if len(res.rows) == 0 {
			logger.Debugf("No chains for %v in the date window\n", res.ticker)
			continue
		}
		combined = append(combined, res.rows...)
	}
	return combined
}

// optionChain discovers a ticker's expiration dates, fetches and prices the
// chains inside the window through the inner pool, and broadcasts the stock
// metadata into the merged rows.
func (s *Screener) optionChain(ticker string, entry models.StockMetadataEntry, rate float64, today time.Time) ([]models.ContractRow, error) {
	if entry.StockPrice <= 0 {
		return nil, fmt.Errorf("no usable stock price for %v", ticker)
	}

	available, err := s.Market.ExpirationDates(ticker)
	if err != nil {
		return nil, fmt.Errorf("expiration dates for %v: %w", ticker, err)
	}

	minBound := today.AddDate(0, 0, s.Criteria.MinDays)
	maxBound := today.AddDate(0, 0, s.Criteria.MaxDays)
	var validDates []string
	for _, d := range available {
		day, err := utils.ParseDate(d)
		if err != nil {
			continue
		}
		if !day.Before(minBound) && !day.After(maxBound) {
			validDates = append(validDates, d)
		}
	}
	if len(validDates) == 0 {
		return nil, nil
	}

	workers := len(validDates)
	if workers > MaxDateWorkers {
		workers = MaxDateWorkers
	}
	sem := make(chan struct{}, workers)
	results := make(chan dateResult, len(validDates))
	var wg sync.WaitGroup
	for _, date := range validDates {
		wg.Add(1)
		go func(date string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			rows, err := s.processSingleDate(ticker, date, entry, rate, today)
			results <- dateResult{date: date, rows: rows, err: err}
		}(date)
	}
	wg.Wait()
	close(results)

	var combined []models.ContractRow
	for res := range results {
		if res.err != nil {
			logger.Errorf("Error processing %v %v: %v\n", ticker, res.date, res.err)
			continue
		}
		combined = append(combined, res.rows...)
	}
	if len(combined) == 0 {
		return nil, nil
	}

	// Broadcast join: metadata field names mirror their ContractRow
	// counterparts, so the copy fills exactly the metadata columns and
	// leaves the fetched contract fields alone.
	for i := range combined {
		if err := copier.Copy(&combined[i], &entry); err != nil {
			return nil, fmt.Errorf("metadata join for %v: %w", ticker, err)
		}
	}
	return combined, nil
}

// processSingleDate prices one ticker × expiration chain: Greeks over the
// strike/vol arrays, then the derived covered-call metrics.
func (s *Screener) processSingleDate(ticker string, date string, entry models.StockMetadataEntry, rate float64, today time.Time) ([]models.ContractRow, error) {
	calls, err := s.Market.OptionChainForDate(ticker, date)
	if err != nil {
		return nil, fmt.Errorf("option chain: %w", err)
	}
	if len(calls) == 0 {
		return nil, nil
	}

	expiry, err := utils.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("bad expiration date %q: %w", date, err)
	}
	daysToExpiry := utils.DaysBetween(today, expiry)
	if daysToExpiry < 1 {
		daysToExpiry = 1
	}
	T := float64(daysToExpiry) / 365

	rows := make([]models.ContractRow, 0, len(calls))
	for _, call := range calls {
		if call.Strike < 0 || call.Premium < 0 || call.ImpliedVolatility < 0 {
			continue
		}
		rows = append(rows, call)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	strikes := make([]float64, len(rows))
	premiums := make([]float64, len(rows))
	vols := make([]float64, len(rows))
	for i := range rows {
		strikes[i] = rows[i].Strike
		premiums[i] = rows[i].Premium
		vols[i] = rows[i].ImpliedVolatility
	}

	S := entry.StockPrice
	greeks, err := options.CallGreeks(S, strikes, T, rate, vols)
	if err != nil {
		return nil, err
	}
	metrics := options.CallMetrics(S, strikes, premiums, daysToExpiry)

	for i := range rows {
		rows[i].ExpirationDate = date
		rows[i].DaysToExpiry = daysToExpiry
		rows[i].Delta = greeks.Delta[i]
		rows[i].Gamma = greeks.Gamma[i]
		rows[i].Theta = greeks.Theta[i]
		rows[i].Vega = greeks.Vega[i]
		rows[i].Rho = greeks.Rho[i]
		rows[i].PremiumReturn = metrics.PremiumReturn[i]
		rows[i].AnnualizedReturn = metrics.AnnualizedReturn[i]
		rows[i].OutOfTheMoney = metrics.OutOfTheMoney[i]
		rows[i].MaxGain = metrics.MaxGain[i]
		rows[i].MaxLoss = metrics.MaxLoss[i]
		rows[i].BreakEven = metrics.BreakEven[i]
		rows[i].RiskRewardRatio = metrics.RiskRewardRatio[i]
		rows[i].ReturnPerDay = metrics.ReturnPerDay[i]
	}
	return rows, nil
}
