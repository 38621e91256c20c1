package repository

// Period is a named lookback window for daily bars.
type Period string

const (
	Period1D Period = "1D"
	Period1W Period = "1W"
	Period1M Period = "1M"
	Period3M Period = "3M"
	Period1Y Period = "1Y"
)

// IsValidPeriod returns true if p is a supported period.
func IsValidPeriod(p Period) bool {
	switch p {
	case Period1D, Period1W, Period1M, Period3M, Period1Y:
		return true
	default:
		return false
	}
}

// DefaultPeriod returns the default lookback window.
func DefaultPeriod() Period { return Period1M }

// NormalizePeriod converts a raw string to a valid period (or default).
func NormalizePeriod(s string) Period {
	if s == "" {
		return DefaultPeriod()
	}
	p := Period(s)
	if IsValidPeriod(p) {
		return p
	}
	return DefaultPeriod()
}

// Days returns the number of most-recent daily bars covered by the period.
func (p Period) Days() int {
	switch p {
	case Period1D:
		return 1
	case Period1W:
		return 7
	case Period3M:
		return 90
	case Period1Y:
		return 365
	default:
		return 30
	}
}
