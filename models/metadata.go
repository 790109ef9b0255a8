package models

// StockMetadataEntry is the company-level snapshot for one ticker, fetched
// once per screening run and broadcast into every contract row for that
// ticker. It is never persisted on its own. Field names line up with their
// ContractRow counterparts so the broadcast join is a straight field copy.
type StockMetadataEntry struct {
	Ticker               string
	CompanyName          string
	StockPrice           float64
	PERatio              float64
	StockVolume          int64
	StockAverageVolume   int64
	MarketCap            float64
	StockBeta            float64
	Industry             string
	AverageAnalystRating string
	EarningsDate         string
	DividendDate         string
	DividendYield        float64
}
