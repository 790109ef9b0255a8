package labeling

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/optionlabs/screener/models"
	"github.com/optionlabs/screener/storage"
)

// fakeHistory is a Provider serving canned daily closes and recording the
// requested window.
type fakeHistory struct {
	closes  map[string]map[string]float64
	histErr map[string]error
	start   time.Time
	end     time.Time
}

func (f *fakeHistory) StockMetadata(tickers []string) map[string]models.StockMetadataEntry {
	return nil
}

func (f *fakeHistory) ExpirationDates(ticker string) ([]string, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeHistory) OptionChainForDate(ticker string, date string) ([]models.ContractRow, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeHistory) HistoricalCloses(ticker string, start time.Time, end time.Time) (map[string]float64, error) {
	f.start, f.end = start, end
	if err := f.histErr[ticker]; err != nil {
		return nil, err
	}
	return f.closes[ticker], nil
}

func labelClock() time.Time {
	return time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
}

func snapshotRow(ticker string, strike, premium, stockPrice float64, snapshotDate, expirationDate string) models.SnapshotRow {
	return models.SnapshotRow{
		ContractRow: models.ContractRow{
			Ticker:         ticker,
			ContractName:   ticker + "240108C00100000",
			Strike:         strike,
			Premium:        premium,
			StockPrice:     stockPrice,
			ExpirationDate: expirationDate,
			ContractSize:   "REGULAR",
		},
		SnapshotDate: snapshotDate,
	}
}

func putSnapshot(t *testing.T, store storage.ObjectStore, date string, rows ...models.SnapshotRow) {
	t.Helper()
	data, err := storage.EncodeSnapshot(rows)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	if err := store.Put(storage.SnapshotKey(date), data); err != nil {
		t.Fatalf("Put: %v", err)
	}
}

func newTestPipeline(store storage.ObjectStore, market *fakeHistory) *Pipeline {
	p := NewPipeline(store, market)
	p.Now = labelClock
	return p
}

func TestRunLabelsExpiredTrades(t *testing.T) {
	store := storage.NewMemoryStore()
	putSnapshot(t, store, "2024-01-01",
		snapshotRow("XYZ", 100, 2, 95, "2024-01-01", "2024-01-08"),
		snapshotRow("XYZ", 110, 1.2, 95, "2024-01-01", "2024-03-01"), // still live
	)
	market := &fakeHistory{closes: map[string]map[string]float64{
		"XYZ": {"2024-01-08": 105},
	}}

	result, err := newTestPipeline(store, market).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Labeled) != 1 {
		t.Fatalf("Expected 1 labeled trade, got %v", len(result.Labeled))
	}

	trade := result.Labeled[0]
	if trade.Signature() != "2024-01-01_XYZ_100_2024-01-08" {
		t.Errorf("Bad signature: %v", trade.Signature())
	}
	if !trade.Assigned || trade.FinalPrice != 105 {
		t.Errorf("Expected assignment at final 105: %+v", trade)
	}
	if trade.RealizedValue != 102 {
		t.Errorf("Realized value should be strike+premium: %v", trade.RealizedValue)
	}
	if math.Abs(trade.RealizedReturnPct-0.07368421052631578) > 1e-12 {
		t.Errorf("Bad realized return: %v", trade.RealizedReturnPct)
	}
	if trade.DaysHeld != 7 {
		t.Errorf("Bad days held: %v", trade.DaysHeld)
	}
	if math.Abs(trade.RealizedAnnualReturn-3.842105263157895) > 1e-9 {
		t.Errorf("Bad annualized return: %v", trade.RealizedAnnualReturn)
	}
	if !trade.TargetProfitable || !trade.TargetHighQuality {
		t.Errorf("Targets not set: %+v", trade)
	}

	// Close fetch window starts a few days before the earliest expiration.
	if got := market.start.Format("2006-01-02"); got != "2024-01-03" {
		t.Errorf("Bad history window start: %v", got)
	}

	// The live row keeps the file out of the archive.
	if len(result.ArchivedKeys) != 0 {
		t.Errorf("Mixed file must not be archived: %v", result.ArchivedKeys)
	}
	if _, err := store.Get(storage.SnapshotKey("2024-01-01")); err != nil {
		t.Errorf("Mixed file disappeared: %v", err)
	}

	// The batch is on disk and decodes back to the same trade.
	data, err := store.Get(result.BatchKey)
	if err != nil {
		t.Fatalf("Get batch: %v", err)
	}
	rows, err := storage.DecodeLabeled(data)
	if err != nil {
		t.Fatalf("DecodeLabeled: %v", err)
	}
	if len(rows) != 1 || rows[0].Signature() != trade.Signature() {
		t.Errorf("Batch roundtrip mismatch: %+v", rows)
	}

	if result.WinRate != 1 {
		t.Errorf("Bad win rate: %v", result.WinRate)
	}
}

func TestSecondRunFindsNothingNew(t *testing.T) {
	store := storage.NewMemoryStore()
	putSnapshot(t, store, "2024-01-01",
		snapshotRow("XYZ", 100, 2, 95, "2024-01-01", "2024-01-08"),
		snapshotRow("XYZ", 110, 1.2, 95, "2024-01-01", "2024-03-01"),
	)
	market := &fakeHistory{closes: map[string]map[string]float64{
		"XYZ": {"2024-01-08": 105},
	}}

	if _, err := newTestPipeline(store, market).Run(); err != nil {
		t.Fatalf("First run: %v", err)
	}
	result, err := newTestPipeline(store, market).Run()
	if err != nil {
		t.Fatalf("Second run: %v", err)
	}
	if len(result.Labeled) != 0 || result.BatchKey != "" {
		t.Errorf("Second run relabeled trades: %+v", result)
	}

	batches, err := store.List(storage.TrainingPrefix)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(batches) != 1 {
		t.Errorf("Expected exactly one batch after two runs, got %v", batches)
	}
}

func TestFullyExpiredFileIsArchived(t *testing.T) {
	store := storage.NewMemoryStore()
	putSnapshot(t, store, "2024-01-01",
		snapshotRow("XYZ", 100, 2, 95, "2024-01-01", "2024-01-08"),
	)
	market := &fakeHistory{closes: map[string]map[string]float64{
		"XYZ": {"2024-01-08": 105},
	}}

	result, err := newTestPipeline(store, market).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	rawKey := storage.SnapshotKey("2024-01-01")
	if len(result.ArchivedKeys) != 1 || result.ArchivedKeys[0] != rawKey {
		t.Errorf("Bad archive set: %v", result.ArchivedKeys)
	}
	if _, err := store.Get(rawKey); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Original key still present: %v", err)
	}
	if _, err := store.Get(storage.ArchiveKey(rawKey)); err != nil {
		t.Errorf("Archive copy missing: %v", err)
	}
	// Archival is housekeeping only; the rows still get labeled this run.
	if len(result.Labeled) != 1 {
		t.Errorf("Archived rows not labeled: %v", len(result.Labeled))
	}
}

func TestHolidayFallbackAndUnpricedDrop(t *testing.T) {
	store := storage.NewMemoryStore()
	putSnapshot(t, store, "2024-01-01",
		snapshotRow("ABC", 100, 2, 95, "2024-01-01", "2024-01-07"), // Sunday
		snapshotRow("ABC", 100, 2, 95, "2024-01-01", "2024-01-12"), // no close at all
	)
	market := &fakeHistory{closes: map[string]map[string]float64{
		"ABC": {"2024-01-06": 98},
	}}

	result, err := newTestPipeline(store, market).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Labeled) != 1 {
		t.Fatalf("Expected only the fallback-priced trade, got %v", len(result.Labeled))
	}
	trade := result.Labeled[0]
	if trade.FinalPrice != 98 || trade.Assigned {
		t.Errorf("Fallback close not used: %+v", trade)
	}
	if trade.RealizedValue != 100 {
		t.Errorf("Unassigned realized value should be final+premium: %v", trade.RealizedValue)
	}
}

func TestHistoryFailureDropsOnlyThatTicker(t *testing.T) {
	store := storage.NewMemoryStore()
	putSnapshot(t, store, "2024-01-01",
		snapshotRow("XYZ", 100, 2, 95, "2024-01-01", "2024-01-08"),
		snapshotRow("BAD", 100, 2, 95, "2024-01-01", "2024-01-08"),
	)
	market := &fakeHistory{
		closes:  map[string]map[string]float64{"XYZ": {"2024-01-08": 105}},
		histErr: map[string]error{"BAD": errors.New("delisted")},
	}

	result, err := newTestPipeline(store, market).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Labeled) != 1 || result.Labeled[0].Ticker != "XYZ" {
		t.Errorf("Healthy ticker lost to sibling failure: %+v", result.Labeled)
	}
}

func TestNoRawDataIsFatal(t *testing.T) {
	p := newTestPipeline(storage.NewMemoryStore(), &fakeHistory{})
	if _, err := p.Run(); !errors.Is(err, ErrNoRawData) {
		t.Errorf("Expected ErrNoRawData, got %v", err)
	}
}

func TestNilStoreIsConfigurationError(t *testing.T) {
	p := newTestPipeline(nil, &fakeHistory{})
	if _, err := p.Run(); !errors.Is(err, storage.ErrBucketMissing) {
		t.Errorf("Expected ErrBucketMissing, got %v", err)
	}
}
