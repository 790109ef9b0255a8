package models

// LabeledTrade is a snapshot row whose expiration has passed, augmented with
// the realized outcome. Created once by the labeling pipeline and never
// mutated afterwards.
type LabeledTrade struct {
	SnapshotRow
	FinalPrice           float64 `csv:"final_price"`
	Assigned             bool    `csv:"assigned"`
	RealizedValue        float64 `csv:"realized_value"`
	RealizedReturnPct    float64 `csv:"realized_return_pct"`
	DaysHeld             int     `csv:"days_held"`
	RealizedAnnualReturn float64 `csv:"realized_annual_return"`
	TargetProfitable     bool    `csv:"target_profitable"`
	TargetHighQuality    bool    `csv:"target_high_quality"`
}
