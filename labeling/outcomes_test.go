package labeling

import (
	"testing"

	"github.com/optionlabs/screener/models"
)

func labeledTrade(strike, premium, stockPrice, finalPrice float64) models.LabeledTrade {
	return models.LabeledTrade{
		SnapshotRow: models.SnapshotRow{
			ContractRow: models.ContractRow{
				Strike:         strike,
				Premium:        premium,
				StockPrice:     stockPrice,
				ExpirationDate: "2024-01-08",
			},
			SnapshotDate: "2024-01-01",
		},
		FinalPrice: finalPrice,
	}
}

func TestAssignmentIsStrictlyAboveStrike(t *testing.T) {
	atStrike := labeledTrade(100, 2, 95, 100)
	computeOutcome(&atStrike)
	if atStrike.Assigned {
		t.Error("Finishing exactly at the strike must not assign")
	}
	if atStrike.RealizedValue != 102 {
		t.Errorf("Bad realized value at the strike: %v", atStrike.RealizedValue)
	}

	above := labeledTrade(100, 2, 95, 100.01)
	computeOutcome(&above)
	if !above.Assigned || above.RealizedValue != 102 {
		t.Errorf("A cent above the strike assigns and caps at strike+premium: %+v", above)
	}
}

func TestLosingTradeOutcome(t *testing.T) {
	trade := labeledTrade(100, 2, 95, 80)
	computeOutcome(&trade)
	if trade.Assigned {
		t.Error("Final below strike must not assign")
	}
	if trade.RealizedValue != 82 {
		t.Errorf("Bad realized value: %v", trade.RealizedValue)
	}
	if trade.RealizedReturnPct >= 0 || trade.TargetProfitable || trade.TargetHighQuality {
		t.Errorf("Loss mislabeled: %+v", trade)
	}
}

func TestHoldingPeriodFloorsAtOneDay(t *testing.T) {
	trade := labeledTrade(100, 2, 95, 105)
	trade.SnapshotDate = "2024-01-08" // same-day snapshot and expiration
	computeOutcome(&trade)
	if trade.DaysHeld != 1 {
		t.Errorf("Days held must floor at 1, got %v", trade.DaysHeld)
	}
}

func TestSummarize(t *testing.T) {
	win := labeledTrade(100, 2, 95, 105)
	loss := labeledTrade(100, 2, 95, 80)
	computeOutcome(&win)
	computeOutcome(&loss)

	winRate, meanAnnual := summarize([]models.LabeledTrade{win, loss})
	if winRate != 0.5 {
		t.Errorf("Bad win rate: %v", winRate)
	}
	want := (win.RealizedAnnualReturn + loss.RealizedAnnualReturn) / 2
	if meanAnnual != want {
		t.Errorf("Bad mean annual return: %v != %v", meanAnnual, want)
	}
}
