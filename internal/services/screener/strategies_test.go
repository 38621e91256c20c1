package screener

import (
	"errors"
	"testing"

	"StockSage/internal/domain/models"
)

func TestLookupKnownIDs(t *testing.T) {
	cases := []struct {
		id   string
		name string
		cap  int
	}{
		{"value_strategy", "经典价值策略", 30},
		{"volume_surge", "放量上涨策略", 30},
		{"ma_bullish", "均线多头策略", 30},
		{"tarmac_strategy", "停机坪策略", 20},
		{"annual_line_callback", "回踩年线策略", 15},
		{"platform_breakthrough", "突破平台策略", 25},
		{"turtle_trading", "海龟交易法则", 18},
		{"narrow_flag", "高而窄的旗形", 12},
		{"low_atr_growth", "低ATR成长", 22},
		{"fundamental_screening", "基本面选股", 35},
		{"volume_limit_down", "放量跌停", 8},
	}
	for _, tc := range cases {
		s, err := Lookup(tc.id)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", tc.id, err)
		}
		if s.Name != tc.name {
			t.Errorf("Lookup(%s).Name = %s, want %s", tc.id, s.Name, tc.name)
		}
		if s.Cap != tc.cap {
			t.Errorf("Lookup(%s).Cap = %d, want %d", tc.id, s.Cap, tc.cap)
		}
		if s.Match == nil {
			t.Errorf("Lookup(%s).Match is nil", tc.id)
		}
	}
}

func TestLookupUnknownID(t *testing.T) {
	_, err := Lookup("momentum_breakout")
	if err == nil {
		t.Fatal("expected error for unknown strategy id")
	}
	var unknown *ErrUnknownStrategy
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownStrategy, got %T", err)
	}
	if unknown.ID != "momentum_breakout" {
		t.Errorf("unexpected id in error: %s", unknown.ID)
	}
}

func TestValueStrategyPredicate(t *testing.T) {
	s, _ := Lookup("value_strategy")
	hit := &models.DailyBar{PERatio: 10, PBRatio: 1.2, MarketCap: 50_000_000_000}
	if !s.Match(hit) {
		t.Error("expected low-PE large-cap bar to match value_strategy")
	}
	miss := &models.DailyBar{PERatio: 25, PBRatio: 1.2, MarketCap: 50_000_000_000}
	if s.Match(miss) {
		t.Error("high PE bar should not match value_strategy")
	}
	negPE := &models.DailyBar{PERatio: -5, PBRatio: 1.0, MarketCap: 50_000_000_000}
	if s.Match(negPE) {
		t.Error("negative PE bar should not match value_strategy")
	}
}

func TestVolumeSurgePredicate(t *testing.T) {
	s, _ := Lookup("volume_surge")
	hit := &models.DailyBar{Volume: 2_000_000, Turnover: 300_000_000, Open: 10, Close: 10.5}
	if !s.Match(hit) {
		t.Error("expected rising high-volume bar to match volume_surge")
	}
	down := &models.DailyBar{Volume: 2_000_000, Turnover: 300_000_000, Open: 10, Close: 9.5}
	if s.Match(down) {
		t.Error("falling bar should not match volume_surge")
	}
}

func TestVolumeLimitDownPredicate(t *testing.T) {
	s, _ := Lookup("volume_limit_down")
	hit := &models.DailyBar{Volume: 3_000_000, Turnover: 300_000_000, Open: 10, Close: 9.2}
	if !s.Match(hit) {
		t.Error("expected heavy sell-off bar to match volume_limit_down")
	}
	mild := &models.DailyBar{Volume: 3_000_000, Turnover: 300_000_000, Open: 10, Close: 9.8}
	if s.Match(mild) {
		t.Error("mild decline should not match volume_limit_down")
	}
}

func TestAllCoversRegistry(t *testing.T) {
	if got := len(All()); got != 11 {
		t.Fatalf("All() returned %d strategies, want 11", got)
	}
}
