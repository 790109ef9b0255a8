package database

import (
	"testing"

	"github.com/optionlabs/screener/models"
)

func TestRecordFromTrade(t *testing.T) {
	trade := models.LabeledTrade{
		SnapshotRow: models.SnapshotRow{
			ContractRow: models.ContractRow{
				Ticker:         "XYZ",
				Strike:         100,
				Premium:        2,
				StockPrice:     95,
				ExpirationDate: "2024-01-08",
			},
			SnapshotDate: "2024-01-01",
		},
		FinalPrice:           105,
		Assigned:             true,
		RealizedValue:        102,
		RealizedReturnPct:    0.07368421052631578,
		DaysHeld:             7,
		RealizedAnnualReturn: 3.842105263157895,
		TargetProfitable:     true,
		TargetHighQuality:    true,
	}

	record := recordFromTrade(trade)
	if record.Signature != "2024-01-01_XYZ_100_2024-01-08" {
		t.Errorf("Bad signature: %v", record.Signature)
	}
	if record.Ticker != "XYZ" || record.Strike != 100 || record.FinalPrice != 105 {
		t.Errorf("Field mapping broken: %+v", record)
	}
	if !record.Assigned || !record.TargetProfitable || !record.TargetHighQuality {
		t.Errorf("Flags lost in mapping: %+v", record)
	}
}
