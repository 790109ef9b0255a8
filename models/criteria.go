package models

// ScreenerCriteria holds the filter bounds for one screening run. Construct
// it once and treat it as read-only; the filter never mutates it.
type ScreenerCriteria struct {
	MinVolume            int     `json:"min_volume"`
	MinOpenInterest      int     `json:"min_open_interest"`
	MinPremium           float64 `json:"min_premium"`
	MinDays              int     `json:"min_days"`
	MaxDays              int     `json:"max_days"`
	MinDelta             float64 `json:"min_delta"`
	MaxDelta             float64 `json:"max_delta"`
	MinGamma             float64 `json:"min_gamma"`
	MaxGamma             float64 `json:"max_gamma"`
	MinTheta             float64 `json:"min_theta"`
	MaxTheta             float64 `json:"max_theta"`
	MinVega              float64 `json:"min_vega"`
	MaxVega              float64 `json:"max_vega"`
	MinImpliedVolatility float64 `json:"min_implied_volatility"`
	MaxImpliedVolatility float64 `json:"max_implied_volatility"`
	MinPERatio           float64 `json:"min_pe_ratio"`
	MaxPERatio           float64 `json:"max_pe_ratio"`
	MinStockPrice        float64 `json:"min_stock_price"`
	MaxStockPrice        float64 `json:"max_stock_price"`
}

func DefaultCriteria() ScreenerCriteria {
	return ScreenerCriteria{
		MinVolume:            100,
		MinOpenInterest:      100,
		MinPremium:           0.3,
		MinDays:              7,
		MaxDays:              10,
		MinDelta:             0.2,
		MaxDelta:             0.5,
		MinGamma:             0,
		MaxGamma:             0.1,
		MinTheta:             -1.0,
		MaxTheta:             -0.1,
		MinVega:              -1.0,
		MaxVega:              0.5,
		MinImpliedVolatility: 0.3,
		MaxImpliedVolatility: 1.0,
		MinPERatio:           8,
		MaxPERatio:           50,
		MinStockPrice:        10.0,
		MaxStockPrice:        1000.0,
	}
}
