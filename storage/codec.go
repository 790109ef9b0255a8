package storage

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/gocarina/gocsv"
	"github.com/klauspost/compress/zstd"

	"github.com/optionlabs/screener/models"
)

// Tables travel as zstd-compressed CSV whose header order is fixed by the
// row structs in models. Decode also accepts the uncompressed CSV written by
// earlier versions of the exporter.

var zstdEncoder, _ = zstd.NewWriter(nil)
var zstdDecoder, _ = zstd.NewReader(nil)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func isZstd(data []byte) bool {
	if len(data) < len(zstdMagic) {
		return false
	}
	for i, b := range zstdMagic {
		if data[i] != b {
			return false
		}
	}
	return true
}

func decompress(data []byte) ([]byte, error) {
	if !isZstd(data) {
		return data, nil
	}
	return zstdDecoder.DecodeAll(data, nil)
}

// SnapshotKey is the raw object key for one screening day.
func SnapshotKey(snapshotDate string) string {
	return RawPrefix + snapshotDate + ".csv.zst"
}

// LabeledBatchKey names an append-only labeled batch by its emit time.
func LabeledBatchKey(now time.Time) string {
	return TrainingPrefix + "labeled_batch_" + now.Format("2006-01-02_15-04-05") + ".csv.zst"
}

func EncodeSnapshot(rows []models.SnapshotRow) ([]byte, error) {
	raw, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return zstdEncoder.EncodeAll(raw, nil), nil
}

func DecodeSnapshot(data []byte) ([]models.SnapshotRow, error) {
	raw, err := decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	var rows []models.SnapshotRow
	if err := gocsv.UnmarshalBytes(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	for i := range rows {
		migrateSnapshotRow(&rows[i])
	}
	return rows, nil
}

func EncodeLabeled(rows []models.LabeledTrade) ([]byte, error) {
	raw, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("encode labeled batch: %w", err)
	}
	return zstdEncoder.EncodeAll(raw, nil), nil
}

func DecodeLabeled(data []byte) ([]models.LabeledTrade, error) {
	raw, err := decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decode labeled batch: %w", err)
	}
	var rows []models.LabeledTrade
	if err := gocsv.UnmarshalBytes(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode labeled batch: %w", err)
	}
	return rows, nil
}

// migrateSnapshotRow patches rows written before the schema settled. Old
// exports lack the ticker column; the OCC contract name still carries it.
func migrateSnapshotRow(row *models.SnapshotRow) {
	if row.Ticker == "" && row.ContractName != "" {
		row.Ticker = tickerFromContractName(row.ContractName)
	}
	if row.ContractSize == "" {
		row.ContractSize = "REGULAR"
	}
}

func tickerFromContractName(name string) string {
	end := strings.IndexFunc(name, unicode.IsDigit)
	if end <= 0 {
		return name
	}
	return name[:end]
}
