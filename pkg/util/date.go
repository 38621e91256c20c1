package util

import "time"

// DayLayout is the canonical trade-date format.
const DayLayout = "2006-01-02"

// DayKey formats t as a trade-date key in UTC.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// UTCDayWindow returns the [start, end) bounds of the UTC calendar day
// containing t.
func UTCDayWindow(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

// ParseDay parses a trade-date key. Returns (t, true) on success.
func ParseDay(s string) (time.Time, bool) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
