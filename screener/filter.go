package screener

import (
	"sort"

	"github.com/optionlabs/screener/logger"
	"github.com/optionlabs/screener/models"
)

// FilterDiagnostics carries per-predicate pass counts, computed only when
// the full conjunction eliminates every row. They let an operator tell
// "thresholds too strict" apart from "no data".
type FilterDiagnostics struct {
	Total   int
	Volume  int
	Premium int
	Delta   int
	PERatio int
}

// Filter applies the screening criteria and ranks the survivors by
// premium_return descending, breaking ties on days_to_expiry ascending.
// When every row is eliminated the returned diagnostics are non-nil and the
// row slice is empty; that is not an error.
func Filter(rows []models.ContractRow, c models.ScreenerCriteria) ([]models.ContractRow, *FilterDiagnostics) {
	var filtered []models.ContractRow
	for _, row := range rows {
		if passes(row, c) {
			filtered = append(filtered, row)
		}
	}

	if len(filtered) == 0 && len(rows) > 0 {
		diagnostics := diagnose(rows, c)
		logger.Infof("Filter diagnostics (rows passing of %v): volume>=%v: %v, premium>=%v: %v, delta %v-%v: %v, pe %v-%v: %v\n",
			diagnostics.Total,
			c.MinVolume, diagnostics.Volume,
			c.MinPremium, diagnostics.Premium,
			c.MinDelta, c.MaxDelta, diagnostics.Delta,
			c.MinPERatio, c.MaxPERatio, diagnostics.PERatio)
		return nil, &diagnostics
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].PremiumReturn != filtered[j].PremiumReturn {
			return filtered[i].PremiumReturn > filtered[j].PremiumReturn
		}
		return filtered[i].DaysToExpiry < filtered[j].DaysToExpiry
	})
	return filtered, nil
}

func between(v float64, lo float64, hi float64) bool {
	return v >= lo && v <= hi
}

func passes(r models.ContractRow, c models.ScreenerCriteria) bool {
	// A zero PE means "not applicable" (funds and other non-equity
	// instruments report none), never "rejected".
	peOK := r.PERatio == 0 || between(r.PERatio, c.MinPERatio, c.MaxPERatio)

	return r.Strike >= r.StockPrice &&
		r.Volume >= c.MinVolume &&
		r.Premium >= c.MinPremium &&
		between(r.Delta, c.MinDelta, c.MaxDelta) &&
		between(r.Vega, c.MinVega, c.MaxVega) &&
		peOK &&
		between(r.StockPrice, c.MinStockPrice, c.MaxStockPrice) &&
		r.OpenInterest >= c.MinOpenInterest &&
		between(r.ImpliedVolatility, c.MinImpliedVolatility, c.MaxImpliedVolatility)
}

func diagnose(rows []models.ContractRow, c models.ScreenerCriteria) FilterDiagnostics {
	d := FilterDiagnostics{Total: len(rows)}
	for _, r := range rows {
		if r.Volume >= c.MinVolume {
			d.Volume++
		}
		if r.Premium >= c.MinPremium {
			d.Premium++
		}
		if between(r.Delta, c.MinDelta, c.MaxDelta) {
			d.Delta++
		}
		if r.PERatio == 0 || between(r.PERatio, c.MinPERatio, c.MaxPERatio) {
			d.PERatio++
		}
	}
	return d
}
