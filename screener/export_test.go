package screener

import (
	"errors"
	"testing"

	"github.com/optionlabs/screener/models"
	"github.com/optionlabs/screener/storage"
)

func TestExportSnapshotStampsDateAndUploads(t *testing.T) {
	market := &fakeMarket{
		meta:  map[string]models.StockMetadataEntry{"ACME": acmeMeta()},
		dates: map[string][]string{"ACME": {"2024-01-05"}},
		chains: map[string]map[string][]models.ContractRow{
			"ACME": {"2024-01-05": {call("ACME240105C00100000", 100, 2.05, 321, 1500, 0.55)}},
		},
	}
	store := storage.NewMemoryStore()
	s := NewScreener([]string{"ACME"}, wideCriteria(), market, fixedRate(0.0425), store)
	s.Now = testClock

	key, count, err := s.ExportSnapshot()
	if err != nil {
		t.Fatalf("ExportSnapshot: %v", err)
	}
	if key != "raw_data/2023-12-29.csv.zst" || count != 1 {
		t.Errorf("Bad export: key=%v count=%v", key, count)
	}

	data, err := store.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	rows, err := storage.DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if len(rows) != 1 || rows[0].SnapshotDate != "2023-12-29" {
		t.Errorf("Snapshot date not stamped: %+v", rows)
	}
}

func TestExportSnapshotWithoutStoreIsConfigurationError(t *testing.T) {
	s := NewScreener(nil, models.DefaultCriteria(), &fakeMarket{}, fixedRate(0.0425), nil)
	if _, _, err := s.ExportSnapshot(); !errors.Is(err, storage.ErrBucketMissing) {
		t.Errorf("Expected ErrBucketMissing, got %v", err)
	}
}
