package utils

import (
	"testing"
	"time"
)

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	to := time.Date(2024, 1, 8, 0, 1, 0, 0, time.UTC)
	if days := DaysBetween(from, to); days != 7 {
		t.Errorf("Bad day count: %v, expected 7", days)
	}
	if days := DaysBetween(to, from); days != -7 {
		t.Errorf("Bad reverse day count: %v, expected -7", days)
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-01-08")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if FormatDate(d) != "2024-01-08" {
		t.Errorf("Bad round trip: %v", FormatDate(d))
	}
}

func TestToFixed(t *testing.T) {
	if v := ToFixed(3.14159, 2); v != 3.14 {
		t.Errorf("Bad ToFixed: %v", v)
	}
}
