// Package labeling turns expired screening snapshots into a labeled
// training dataset: it deduplicates against prior batches, archives dead
// snapshot files, looks up realized prices and computes trade outcomes.
package labeling

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/optionlabs/screener/logger"
	"github.com/optionlabs/screener/marketdata"
	"github.com/optionlabs/screener/models"
	"github.com/optionlabs/screener/storage"
	"github.com/optionlabs/screener/utils"
)

// ErrNoRawData means there was nothing to label at all; partial decode or
// fetch failures never surface as this.
var ErrNoRawData = errors.New("no raw snapshot data to process")

// historyLookback pads the close-price fetch window before the earliest
// relevant expiration so the weekend fallback always has data to land on.
const historyLookback = 5

type Pipeline struct {
	Store  storage.ObjectStore
	Market marketdata.Provider

	// Now is a clock override for tests; leave nil for wall time.
	Now func() time.Time
}

func NewPipeline(store storage.ObjectStore, market marketdata.Provider) *Pipeline {
	return &Pipeline{Store: store, Market: market}
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Result summarizes one labeling run.
type Result struct {
	BatchKey         string
	Labeled          []models.LabeledTrade
	ArchivedKeys     []string
	WinRate          float64
	MeanAnnualReturn float64
}

// Run executes the full labeling pass. Only missing configuration or the
// total absence of raw input fail the run; every smaller failure is logged
// and excluded from the batch.
func (p *Pipeline) Run() (*Result, error) {
	if p.Store == nil {
		return nil, storage.ErrBucketMissing
	}
	now := p.now()

	existing := p.loadExistingSignatures()
	logger.Infof("Found %v previously labeled trades.\n", len(existing))

	raw, archived, err := p.scanAndArchiveRaw(now)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrNoRawData
	}

	eligible := eligibleRows(raw, existing, now)
	if len(eligible) == 0 {
		logger.Infof("No new expired trades to label. Everything is up to date.\n")
		return &Result{ArchivedKeys: archived}, nil
	}
	logger.Infof("Found %v new expired trades to label.\n", len(eligible))

	labeled := p.attachFinalPrices(eligible, now)
	if len(labeled) == 0 {
		logger.Infof("Could not fetch prices for the new data (might be delisted or a provider outage).\n")
		return &Result{ArchivedKeys: archived}, nil
	}

	for i := range labeled {
		computeOutcome(&labeled[i])
	}

	data, err := storage.EncodeLabeled(labeled)
	if err != nil {
		return nil, err
	}
	batchKey := storage.LabeledBatchKey(now)
	if err := p.Store.Put(batchKey, data); err != nil {
		return nil, fmt.Errorf("upload labeled batch: %w", err)
	}

	winRate, meanAnnual := summarize(labeled)
	logger.Infof("--- Batch Complete ---\n")
	logger.Infof("Uploaded: %v\n", batchKey)
	logger.Infof("Trades labeled: %v\n", len(labeled))
	logger.Infof("Win rate: %v%%, mean annualized return: %v\n",
		utils.ToFixed(winRate*100, 1), utils.ToFixed(meanAnnual, 4))

	return &Result{
		BatchKey:         batchKey,
		Labeled:          labeled,
		ArchivedKeys:     archived,
		WinRate:          winRate,
		MeanAnnualReturn: meanAnnual,
	}, nil
}

// loadExistingSignatures unions the signature of every row in every prior
// labeled batch. A batch that fails to decode is skipped: its rows may be
// labeled twice, which downstream consumers dedup on signature anyway.
func (p *Pipeline) loadExistingSignatures() map[string]bool {
	existing := make(map[string]bool)
	keys, err := p.Store.List(storage.TrainingPrefix)
	if err != nil {
		logger.Errorf("Could not list labeled batches: %v\n", err)
		return existing
	}
	for _, key := range keys {
		if !storage.IsDataKey(key) {
			continue
		}
		data, err := p.Store.Get(key)
		if err != nil {
			logger.Errorf("Could not read %v: %v\n", key, err)
			continue
		}
		rows, err := storage.DecodeLabeled(data)
		if err != nil {
			logger.Errorf("Could not decode %v: %v\n", key, err)
			continue
		}
		for _, row := range rows {
			existing[row.Signature()] = true
		}
	}
	return existing
}

// scanAndArchiveRaw loads every active raw snapshot and moves fully-expired
// files to the archive namespace. Archival is storage housekeeping: the
// rows of an archived file still take part in this run's labeling.
func (p *Pipeline) scanAndArchiveRaw(now time.Time) ([]models.SnapshotRow, []string, error) {
	keys, err := p.Store.List(storage.RawPrefix)
	if err != nil {
		return nil, nil, fmt.Errorf("list raw snapshots: %w", err)
	}

	var all []models.SnapshotRow
	var archived []string
	for _, key := range keys {
		if strings.Contains(key, "archive/") || !storage.IsDataKey(key) {
			continue
		}
		data, err := p.Store.Get(key)
		if err != nil {
			logger.Errorf("Could not read %v: %v\n", key, err)
			continue
		}
		rows, err := storage.DecodeSnapshot(data)
		if err != nil {
			logger.Errorf("Could not decode %v: %v\n", key, err)
			continue
		}
		all = append(all, rows...)

		if allExpired(rows, now) {
			if err := p.archive(key); err != nil {
				logger.Errorf("Failed to archive %v: %v\n", key, err)
			} else {
				archived = append(archived, key)
			}
		}
	}
	return all, archived, nil
}

func allExpired(rows []models.SnapshotRow, now time.Time) bool {
	if len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		expiry, err := utils.ParseDate(row.ExpirationDate)
		if err != nil || !expiry.Before(now) {
			return false
		}
	}
	return true
}

func (p *Pipeline) archive(key string) error {
	dst := storage.ArchiveKey(key)
	logger.Infof("Archiving dead file: %v -> %v\n", key, dst)
	if err := p.Store.Copy(key, dst); err != nil {
		return err
	}
	return p.Store.Delete(key)
}

func eligibleRows(raw []models.SnapshotRow, existing map[string]bool, now time.Time) []models.SnapshotRow {
	var eligible []models.SnapshotRow
	for _, row := range raw {
		expiry, err := utils.ParseDate(row.ExpirationDate)
		if err != nil {
			logger.Debugf("Skipping row with bad expiration %q\n", row.ExpirationDate)
			continue
		}
		if !expiry.Before(now) || existing[row.Signature()] {
			continue
		}
		eligible = append(eligible, row)
	}
	return eligible
}

// attachFinalPrices resolves the close on each row's expiration date,
// falling back one calendar day for expirations landing on market
// holidays. Rows with no price after the fallback cannot be labeled and
// are dropped.
func (p *Pipeline) attachFinalPrices(eligible []models.SnapshotRow, now time.Time) []models.LabeledTrade {
	start := earliestExpiration(eligible).AddDate(0, 0, -historyLookback)

	byTicker := make(map[string][]models.SnapshotRow)
	for _, row := range eligible {
		byTicker[row.Ticker] = append(byTicker[row.Ticker], row)
	}
	tickers := make([]string, 0, len(byTicker))
	for ticker := range byTicker {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	var labeled []models.LabeledTrade
	for _, ticker := range tickers {
		closes, err := p.Market.HistoricalCloses(ticker, start, now)
		if err != nil {
			logger.Errorf("Could not fetch history for %v: %v\n", ticker, err)
			continue
		}
		for _, row := range byTicker[ticker] {
			price, ok := lookupClose(closes, row.ExpirationDate)
			if !ok {
				logger.Debugf("No close found for %v around %v\n", ticker, row.ExpirationDate)
				continue
			}
			labeled = append(labeled, models.LabeledTrade{SnapshotRow: row, FinalPrice: price})
		}
	}
	return labeled
}

func earliestExpiration(rows []models.SnapshotRow) time.Time {
	var earliest time.Time
	for _, row := range rows {
		expiry, err := utils.ParseDate(row.ExpirationDate)
		if err != nil {
			continue
		}
		if earliest.IsZero() || expiry.Before(earliest) {
			earliest = expiry
		}
	}
	return earliest
}

func lookupClose(closes map[string]float64, expirationDate string) (float64, bool) {
	if price, ok := closes[expirationDate]; ok {
		return price, true
	}
	expiry, err := utils.ParseDate(expirationDate)
	if err != nil {
		return 0, false
	}
	price, ok := closes[utils.FormatDate(expiry.AddDate(0, 0, -1))]
	return price, ok
}
