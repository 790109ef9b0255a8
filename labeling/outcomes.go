package labeling

import (
	"gonum.org/v1/gonum/stat"

	"github.com/optionlabs/screener/models"
	"github.com/optionlabs/screener/utils"
)

// highQualityAnnualReturn is the annualized-return cutoff separating trades
// that merely made money from ones worth training a model toward.
const highQualityAnnualReturn = 0.15

// computeOutcome fills in the realized fields of a priced trade. The
// position is one covered call: long stock at the snapshot price, short the
// call at the snapshot premium, held to expiration.
func computeOutcome(trade *models.LabeledTrade) {
	trade.Assigned = trade.FinalPrice > trade.Strike

	// Assignment caps the stock leg at the strike; otherwise the shares
	// are kept at the final price. The premium is banked either way.
	if trade.Assigned {
		trade.RealizedValue = trade.Strike + trade.Premium
	} else {
		trade.RealizedValue = trade.FinalPrice + trade.Premium
	}
	trade.RealizedReturnPct = (trade.RealizedValue - trade.StockPrice) / trade.StockPrice

	trade.DaysHeld = holdingDays(trade.SnapshotDate, trade.ExpirationDate)
	trade.RealizedAnnualReturn = trade.RealizedReturnPct * 365.0 / float64(trade.DaysHeld)

	trade.TargetProfitable = trade.RealizedReturnPct > 0
	trade.TargetHighQuality = trade.RealizedAnnualReturn > highQualityAnnualReturn
}

func holdingDays(snapshotDate string, expirationDate string) int {
	snapshot, err := utils.ParseDate(snapshotDate)
	if err != nil {
		return 1
	}
	expiry, err := utils.ParseDate(expirationDate)
	if err != nil {
		return 1
	}
	days := utils.DaysBetween(snapshot, expiry)
	if days < 1 {
		days = 1
	}
	return days
}

// summarize reports the fraction of profitable trades and the mean
// annualized return across the batch.
func summarize(trades []models.LabeledTrade) (winRate float64, meanAnnual float64) {
	wins := make([]float64, len(trades))
	annuals := make([]float64, len(trades))
	for i, trade := range trades {
		if trade.TargetProfitable {
			wins[i] = 1
		}
		annuals[i] = trade.RealizedAnnualReturn
	}
	return stat.Mean(wins, nil), stat.Mean(annuals, nil)
}
