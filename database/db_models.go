package database

import "github.com/optionlabs/screener/models"

type labeledTradeRecord struct {
	Signature            string  `db:"signature"`
	SnapshotDate         string  `db:"snapshot_date"`
	Ticker               string  `db:"ticker"`
	Strike               float64 `db:"strike"`
	ExpirationDate       string  `db:"expiration_date"`
	StockPrice           float64 `db:"stock_price"`
	Premium              float64 `db:"premium"`
	FinalPrice           float64 `db:"final_price"`
	Assigned             bool    `db:"assigned"`
	RealizedValue        float64 `db:"realized_value"`
	RealizedReturnPct    float64 `db:"realized_return_pct"`
	DaysHeld             int     `db:"days_held"`
	RealizedAnnualReturn float64 `db:"realized_annual_return"`
	TargetProfitable     bool    `db:"target_profitable"`
	TargetHighQuality    bool    `db:"target_high_quality"`
}

func recordFromTrade(trade models.LabeledTrade) labeledTradeRecord {
	return labeledTradeRecord{
		Signature:            trade.Signature(),
		SnapshotDate:         trade.SnapshotDate,
		Ticker:               trade.Ticker,
		Strike:               trade.Strike,
		ExpirationDate:       trade.ExpirationDate,
		StockPrice:           trade.StockPrice,
		Premium:              trade.Premium,
		FinalPrice:           trade.FinalPrice,
		Assigned:             trade.Assigned,
		RealizedValue:        trade.RealizedValue,
		RealizedReturnPct:    trade.RealizedReturnPct,
		DaysHeld:             trade.DaysHeld,
		RealizedAnnualReturn: trade.RealizedAnnualReturn,
		TargetProfitable:     trade.TargetProfitable,
		TargetHighQuality:    trade.TargetHighQuality,
	}
}
