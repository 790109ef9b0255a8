package marketdata

import (
	"time"

	"github.com/valyala/fastjson"
)

// The provider reshuffles where the next earnings date lives depending on
// instrument type and API vintage, so the lookup is an ordered chain of
// strategies. Each one inspects a different quoteSummary module and reports
// whether it found a date; the first hit wins.
type earningsStrategy func(result *fastjson.Value, now time.Time) (string, bool)

var earningsStrategies = []earningsStrategy{
	earningsFromCalendarEvents,
	earningsFromEarningsModule,
	earningsFromHistory,
}

const earningsDateLayout = "2006/01/02"

func nextEarningsDate(result *fastjson.Value, now time.Time) string {
	for _, strategy := range earningsStrategies {
		if date, ok := strategy(result, now); ok {
			return date
		}
	}
	return "N/A"
}

func earningsFromCalendarEvents(result *fastjson.Value, now time.Time) (string, bool) {
	dates := result.GetArray("calendarEvents", "earnings", "earningsDate")
	if len(dates) == 0 {
		return "", false
	}
	raw := dates[0].GetInt64("raw")
	if raw == 0 {
		return "", false
	}
	return time.Unix(raw, 0).UTC().Format(earningsDateLayout), true
}

func earningsFromEarningsModule(result *fastjson.Value, now time.Time) (string, bool) {
	dates := result.GetArray("earnings", "earningsChart", "earningsDate")
	if len(dates) == 0 {
		return "", false
	}
	raw := dates[0].GetInt64("raw")
	if raw == 0 {
		return "", false
	}
	return time.Unix(raw, 0).UTC().Format(earningsDateLayout), true
}

// earningsFromHistory scans the reported earnings history for the nearest
// date still in the future. Histories are mostly past quarters, so this is
// the strategy of last resort.
func earningsFromHistory(result *fastjson.Value, now time.Time) (string, bool) {
	var best int64
	for _, item := range result.GetArray("earningsHistory", "history") {
		raw := item.GetInt64("quarter", "raw")
		if raw == 0 || time.Unix(raw, 0).Before(now) {
			continue
		}
		if best == 0 || raw < best {
			best = raw
		}
	}
	if best == 0 {
		return "", false
	}
	return time.Unix(best, 0).UTC().Format(earningsDateLayout), true
}
