package models

import "fmt"

// DateLayout is the wire format for every date column in persisted tables.
const DateLayout = "2006-01-02"

// ContractRow is one call option observation joined with the metadata of its
// underlying. The csv tags spell the canonical column order of exported
// snapshots; the struct is the schema, so every column is always present and
// downstream readers never see a shifting layout.
type ContractRow struct {
	CompanyName          string  `csv:"company_name"`
	Ticker               string  `csv:"ticker"`
	ContractName         string  `csv:"contract_name"`
	ExpirationDate       string  `csv:"expiration_date"`
	LastTradeDate        string  `csv:"last_trade_date"`
	StockPrice           float64 `csv:"stock_price"`
	Strike               float64 `csv:"strike"`
	Premium              float64 `csv:"premium"`
	Bid                  float64 `csv:"bid"`
	Ask                  float64 `csv:"ask"`
	Change               float64 `csv:"change"`
	PercentChange        float64 `csv:"percent_change"`
	Volume               int     `csv:"volume"`
	OpenInterest         int     `csv:"open_interest"`
	ImpliedVolatility    float64 `csv:"implied_volatility"`
	Delta                float64 `csv:"delta"`
	Gamma                float64 `csv:"gamma"`
	Theta                float64 `csv:"theta"`
	Vega                 float64 `csv:"vega"`
	Rho                  float64 `csv:"rho"`
	DaysToExpiry         int     `csv:"days_to_expiry"`
	ContractSize         string  `csv:"contract_size"`
	PremiumReturn        float64 `csv:"premium_return"`
	AnnualizedReturn     float64 `csv:"annualized_return"`
	OutOfTheMoney        float64 `csv:"out_of_the_money"`
	MaxGain              float64 `csv:"max_gain"`
	MaxLoss              float64 `csv:"max_loss"`
	BreakEven            float64 `csv:"break_even"`
	RiskRewardRatio      float64 `csv:"risk_reward_ratio"`
	ReturnPerDay         float64 `csv:"return_per_day"`
	InTheMoney           bool    `csv:"in_the_money"`
	PERatio              float64 `csv:"pe_ratio"`
	StockVolume          int64   `csv:"stock_volume"`
	StockAverageVolume   int64   `csv:"stock_average_volume"`
	MarketCap            float64 `csv:"market_cap"`
	StockBeta            float64 `csv:"stock_beta"`
	Industry             string  `csv:"industry"`
	AverageAnalystRating string  `csv:"average_analyst_rating"`
	EarningsDate         string  `csv:"earnings_date"`
	DividendDate         string  `csv:"dividend_date"`
	DividendYield        float64 `csv:"dividend_yield"`
}

// SnapshotRow is a ContractRow as persisted by a screening run.
type SnapshotRow struct {
	ContractRow
	SnapshotDate string `csv:"snapshot_date"`
}

// Signature identifies a unique trade opportunity across snapshots. Labeled
// batches are deduplicated on it.
func (r SnapshotRow) Signature() string {
	return fmt.Sprintf("%s_%s_%g_%s", r.SnapshotDate, r.Ticker, r.Strike, r.ExpirationDate)
}
