// Package indicators computes technical indicators over daily bar windows.
//
// Inputs arrive most-recent-first (store order) and are reversed to
// chronological order internally. All numbers are rounded to two decimals at
// the output boundary only, never mid-computation.
package indicators

import (
	"math"

	"StockSage/internal/domain/models"
)

const tradingDaysPerYear = 252

// Compute derives the indicator set from bars ordered most-recent-first.
// Fewer than 5 bars yields an empty set; no partial computation.
func Compute(bars []models.DailyBar) *models.Indicators {
	if len(bars) < 5 {
		return &models.Indicators{}
	}

	// reverse to chronological order
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[len(bars)-1-i] = b.Close
	}

	sma5 := mean(closes[len(closes)-5:])

	var sma20 *float64
	if len(closes) >= 20 {
		v := round2(mean(closes[len(closes)-20:]))
		sma20 = &v
	}

	// A zero close is a provider placeholder, not a price; steps dividing by
	// it are skipped so the result stays finite and JSON-encodable.
	priceChange := closes[len(closes)-1] - closes[len(closes)-2]
	var priceChangePercent float64
	if prev := closes[len(closes)-2]; prev != 0 {
		priceChangePercent = priceChange / prev * 100
	}

	// Volatility uses the mean of squared per-step returns, not the variance
	// about the mean return. This biased estimator matches the historical
	// numbers downstream consumers expect; do not "correct" it.
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	var volatility float64
	if len(returns) > 0 {
		sumSq := 0.0
		for _, r := range returns {
			sumSq += r * r
		}
		volatility = math.Sqrt(sumSq/float64(len(returns))) * math.Sqrt(tradingDaysPerYear) * 100
	}

	return &models.Indicators{
		SMA5:               round2(sma5),
		SMA20:              sma20,
		PriceChange:        round2(priceChange),
		PriceChangePercent: round2(priceChangePercent),
		Volatility:         round2(volatility),
	}
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
