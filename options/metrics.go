package options

import (
	"github.com/optionlabs/screener/utils"
)

// Metrics holds the derived covered-call economics for a batch of contracts
// sharing one underlying price and expiration. Returns are percentages.
type Metrics struct {
	PremiumReturn    []float64
	AnnualizedReturn []float64
	OutOfTheMoney    []float64
	MaxGain          []float64
	MaxLoss          []float64
	BreakEven        []float64
	RiskRewardRatio  []float64
	ReturnPerDay     []float64
}

// CallMetrics computes per-contract derived metrics element-wise over the
// strike and premium arrays (which must have the same length). S is the spot
// price; daysToExpiry is floored at 1 so same-day expirations don't zero out
// the per-day figures. Conventions are those of a covered call: max loss is
// the underlying purchase cost net of premium, max gain the premium on a
// 100-share contract.
func CallMetrics(S float64, strike []float64, premium []float64, daysToExpiry int) Metrics {
	dteAdj := float64(daysToExpiry)
	if dteAdj < 1 {
		dteAdj = 1
	}

	m := Metrics{
		PremiumReturn: utils.MulArr(utils.DivArr(premium, S), 100),
		MaxGain:       utils.MulArr(premium, 100),
	}
	m.AnnualizedReturn = utils.MulArr(m.PremiumReturn, 365/dteAdj)
	m.ReturnPerDay = utils.DivArr(m.PremiumReturn, dteAdj)

	n := len(strike)
	m.OutOfTheMoney = make([]float64, n)
	m.MaxLoss = make([]float64, n)
	m.BreakEven = make([]float64, n)
	m.RiskRewardRatio = make([]float64, n)
	for i := 0; i < n; i++ {
		m.OutOfTheMoney[i] = (strike[i] - S) / S * 100
		m.MaxLoss[i] = (S - premium[i]) * 100
		m.BreakEven[i] = S - premium[i]
		loss := m.MaxLoss[i]
		if loss == 0 {
			// A premium equal to the share price has no real max loss;
			// substitute 1 so the ratio stays finite.
			loss = 1
		}
		m.RiskRewardRatio[i] = m.MaxGain[i] / loss
	}
	return m
}
