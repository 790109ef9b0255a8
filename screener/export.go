package screener

import (
	"fmt"

	"github.com/optionlabs/screener/logger"
	"github.com/optionlabs/screener/models"
	"github.com/optionlabs/screener/storage"
	"github.com/optionlabs/screener/utils"
)

// ExportSnapshot runs the screen and uploads the ranked table as today's raw
// snapshot. It returns the object key and row count; a missing store is a
// configuration error, unlike the transient fetch failures the screen
// already absorbed.
func (s *Screener) ExportSnapshot() (string, int, error) {
	if s.Store == nil {
		return "", 0, storage.ErrBucketMissing
	}

	rows, _, err := s.ScreenOptions()
	if err != nil {
		return "", 0, err
	}
	if len(rows) == 0 {
		logger.Infof("No opportunities to export.\n")
		return "", 0, nil
	}

	snapshotDate := utils.FormatDate(s.now())
	snapshot := make([]models.SnapshotRow, len(rows))
	for i := range rows {
		snapshot[i] = models.SnapshotRow{ContractRow: rows[i], SnapshotDate: snapshotDate}
	}

	data, err := storage.EncodeSnapshot(snapshot)
	if err != nil {
		return "", 0, err
	}
	key := storage.SnapshotKey(snapshotDate)
	if err := s.Store.Put(key, data); err != nil {
		return "", 0, fmt.Errorf("upload snapshot: %w", err)
	}
	logger.Infof("Uploaded %v rows to %v\n", len(snapshot), key)
	return key, len(snapshot), nil
}
