package util

import (
	"testing"
	"time"
)

func TestDayKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// 02:00 on Jan 2 in UTC+8 is still Jan 1 in UTC
	local := time.Date(2024, 1, 2, 2, 0, 0, 0, loc)
	if got := DayKey(local); got != "2024-01-01" {
		t.Errorf("DayKey = %s, want 2024-01-01", got)
	}
}

func TestUTCDayWindow(t *testing.T) {
	at := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
	from, to := UTCDayWindow(at)
	if from != time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("from = %v", from)
	}
	if to.Sub(from) != 24*time.Hour {
		t.Errorf("window length = %v", to.Sub(from))
	}
}

func TestParseDay(t *testing.T) {
	if _, ok := ParseDay("2024-06-01"); !ok {
		t.Error("valid day rejected")
	}
	if _, ok := ParseDay("06/01/2024"); ok {
		t.Error("invalid layout accepted")
	}
}
