package indicators

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"StockSage/internal/domain/models"
)

// barsFromCloses builds a most-recent-first window from chronological closes.
func barsFromCloses(closes ...float64) []models.DailyBar {
	bars := make([]models.DailyBar, len(closes))
	for i, c := range closes {
		bars[len(closes)-1-i] = models.DailyBar{
			Ticker:    "000001",
			TradeDate: fmt.Sprintf("2024-01-%02d", i+1),
			Close:     c,
			Open:      c - 1,
		}
	}
	return bars
}

func TestComputeTooFewBars(t *testing.T) {
	for n := 0; n < 5; n++ {
		closes := make([]float64, n)
		for i := range closes {
			closes[i] = 10 + float64(i)
		}
		got := Compute(barsFromCloses(closes...))
		if !got.Empty() {
			t.Fatalf("expected empty indicators for %d bars, got %+v", n, got)
		}
	}
}

func TestComputeFiveBars(t *testing.T) {
	// chronological closes: 100, 105, 103, 108, 110
	got := Compute(barsFromCloses(100, 105, 103, 108, 110))

	if got.SMA5 != 105.2 {
		t.Errorf("sma5 = %v, want 105.2", got.SMA5)
	}
	if got.SMA20 != nil {
		t.Errorf("sma20 = %v, want nil for 5 bars", *got.SMA20)
	}
	if got.PriceChange != 2 {
		t.Errorf("priceChange = %v, want 2", got.PriceChange)
	}
	if got.PriceChangePercent != 1.85 {
		t.Errorf("priceChangePercent = %v, want 1.85", got.PriceChangePercent)
	}
}

func TestComputeSMA20(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	got := Compute(barsFromCloses(closes...))

	if got.SMA20 == nil {
		t.Fatal("expected sma20 for 25 bars")
	}
	// mean of closes 105..124
	want := 0.0
	for i := 5; i < 25; i++ {
		want += closes[i]
	}
	want /= 20
	if *got.SMA20 != math.Round(want*100)/100 {
		t.Errorf("sma20 = %v, want %v", *got.SMA20, want)
	}
}

func TestComputeVolatilityMeanSquare(t *testing.T) {
	closes := []float64{100, 110, 99, 108.9, 103.455}
	got := Compute(barsFromCloses(closes...))

	// expected: sqrt(mean(r_i^2)) * sqrt(252) * 100, rounded to 2dp
	sumSq := 0.0
	for i := 1; i < len(closes); i++ {
		r := (closes[i] - closes[i-1]) / closes[i-1]
		sumSq += r * r
	}
	want := math.Sqrt(sumSq/float64(len(closes)-1)) * math.Sqrt(252) * 100
	want = math.Round(want*100) / 100

	if got.Volatility != want {
		t.Errorf("volatility = %v, want %v", got.Volatility, want)
	}
}

func TestComputeZeroCloseStaysFinite(t *testing.T) {
	// upstream maps missing numeric fields to 0, so a zero close is valid input
	got := Compute(barsFromCloses(100, 0, 102, 0, 104, 108))

	for name, v := range map[string]float64{
		"sma5":               got.SMA5,
		"priceChange":        got.PriceChange,
		"priceChangePercent": got.PriceChangePercent,
		"volatility":         got.Volatility,
	} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			t.Errorf("%s = %v, want finite", name, v)
		}
	}
	if _, err := json.Marshal(got); err != nil {
		t.Fatalf("indicators must encode: %v", err)
	}

	// a zero immediately before the newest close zeroes the percent step
	got = Compute(barsFromCloses(100, 101, 102, 0, 104))
	if got.PriceChange != 104 {
		t.Errorf("priceChange = %v, want 104", got.PriceChange)
	}
	if got.PriceChangePercent != 0 {
		t.Errorf("priceChangePercent = %v, want 0 when previous close is 0", got.PriceChangePercent)
	}
}

func TestComputeRoundsAtBoundary(t *testing.T) {
	got := Compute(barsFromCloses(100.111, 100.222, 100.333, 100.444, 100.555))
	for name, v := range map[string]float64{
		"sma5":               got.SMA5,
		"priceChange":        got.PriceChange,
		"priceChangePercent": got.PriceChangePercent,
		"volatility":         got.Volatility,
	} {
		if math.Round(v*100)/100 != v {
			t.Errorf("%s = %v not rounded to 2 decimals", name, v)
		}
	}
}
