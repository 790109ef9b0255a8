package options

import (
	"math"
	"testing"
)

func TestCallMetricsExample(t *testing.T) {
	m := CallMetrics(95, []float64{100}, []float64{2}, 7)

	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"premium_return", m.PremiumReturn[0], 2.1052631578947367},
		{"annualized_return", m.AnnualizedReturn[0], 109.77443609022556},
		{"out_of_the_money", m.OutOfTheMoney[0], 5.2631578947368425},
		{"max_gain", m.MaxGain[0], 200},
		{"max_loss", m.MaxLoss[0], 9300},
		{"break_even", m.BreakEven[0], 93},
		{"risk_reward_ratio", m.RiskRewardRatio[0], 0.021505376344086023},
		{"return_per_day", m.ReturnPerDay[0], 0.3007518796992481},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.expected) > 1e-12 {
			t.Errorf("Bad %v: %v, expected %v", c.name, c.got, c.expected)
		}
	}
}

func TestBreakEvenIdentity(t *testing.T) {
	S := 95.0
	premiums := []float64{0.5, 2, 7.25}
	m := CallMetrics(S, []float64{100, 100, 100}, premiums, 7)
	for i := range premiums {
		if m.BreakEven[i]+premiums[i] != S {
			t.Errorf("break_even + premium != stock_price: %v + %v != %v", m.BreakEven[i], premiums[i], S)
		}
	}
}

func TestRiskRewardFiniteOnZeroMaxLoss(t *testing.T) {
	// Premium equal to the share price zeroes out max loss; the divisor is
	// substituted with 1 so the ratio stays finite.
	m := CallMetrics(50, []float64{55}, []float64{50}, 7)
	if m.MaxLoss[0] != 0 {
		t.Fatalf("Expected zero max loss, got %v", m.MaxLoss[0])
	}
	if math.IsInf(m.RiskRewardRatio[0], 0) || math.IsNaN(m.RiskRewardRatio[0]) {
		t.Errorf("Risk/reward not finite: %v", m.RiskRewardRatio[0])
	}
	if m.RiskRewardRatio[0] != m.MaxGain[0] {
		t.Errorf("Bad substituted ratio: %v, expected %v", m.RiskRewardRatio[0], m.MaxGain[0])
	}
}

func TestDaysToExpiryFloor(t *testing.T) {
	sameDay := CallMetrics(95, []float64{100}, []float64{2}, 0)
	oneDay := CallMetrics(95, []float64{100}, []float64{2}, 1)
	if sameDay.AnnualizedReturn[0] != oneDay.AnnualizedReturn[0] {
		t.Errorf("Same-day expiry not floored to one day: %v != %v",
			sameDay.AnnualizedReturn[0], oneDay.AnnualizedReturn[0])
	}
	if sameDay.ReturnPerDay[0] != sameDay.PremiumReturn[0] {
		t.Errorf("Bad return per day at floor: %v != %v", sameDay.ReturnPerDay[0], sameDay.PremiumReturn[0])
	}
}
