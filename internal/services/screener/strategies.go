// Package screener defines the closed registry of screening strategies.
//
// Each strategy is a pure predicate over a candidate's most recent daily bar
// plus a fixed result cap. Several strategies are deliberately simplified
// proxies for the technical pattern they are named after (ma_bullish,
// tarmac_strategy, ...); they stay distinct entries rather than being merged.
package screener

import (
	"fmt"

	"StockSage/internal/domain/models"
)

// StrategyID identifies one screening strategy.
type StrategyID string

const (
	ValueStrategy        StrategyID = "value_strategy"
	VolumeSurge          StrategyID = "volume_surge"
	MABullish            StrategyID = "ma_bullish"
	TarmacStrategy       StrategyID = "tarmac_strategy"
	AnnualLineCallback   StrategyID = "annual_line_callback"
	PlatformBreakthrough StrategyID = "platform_breakthrough"
	TurtleTrading        StrategyID = "turtle_trading"
	NarrowFlag           StrategyID = "narrow_flag"
	LowATRGrowth         StrategyID = "low_atr_growth"
	FundamentalScreening StrategyID = "fundamental_screening"
	VolumeLimitDown      StrategyID = "volume_limit_down"
)

// Strategy carries the predicate and result cap for one strategy id.
type Strategy struct {
	ID    StrategyID
	Name  string // display name
	Cap   int
	Match func(bar *models.DailyBar) bool
}

// ErrUnknownStrategy reports a strategy id outside the registry.
type ErrUnknownStrategy struct {
	ID string
}

func (e *ErrUnknownStrategy) Error() string {
	return fmt.Sprintf("unsupported strategy: %s", e.ID)
}

var registry = map[StrategyID]Strategy{
	ValueStrategy: {
		ID:   ValueStrategy,
		Name: "经典价值策略",
		Cap:  30,
		Match: func(b *models.DailyBar) bool {
			return b.PERatio > 0 && b.PERatio < 15 &&
				b.PBRatio > 0 && b.PBRatio < 1.5 &&
				b.MarketCap > 20_000_000_000
		},
	},
	VolumeSurge: {
		ID:   VolumeSurge,
		Name: "放量上涨策略",
		Cap:  30,
		Match: func(b *models.DailyBar) bool {
			return b.Volume > 1_000_000 &&
				b.Turnover > 200_000_000 &&
				b.Close > b.Open
		},
	},
	MABullish: {
		ID:   MABullish,
		Name: "均线多头策略",
		Cap:  30,
		// simplified proxy: full version needs MA5>MA10>MA20 over history
		Match: func(b *models.DailyBar) bool {
			return b.Close > 5 && b.Volume > 500_000
		},
	},
	TarmacStrategy: {
		ID:   TarmacStrategy,
		Name: "停机坪策略",
		Cap:  20,
		Match: func(b *models.DailyBar) bool {
			return b.Volume > 500_000
		},
	},
	AnnualLineCallback: {
		ID:   AnnualLineCallback,
		Name: "回踩年线策略",
		Cap:  15,
		Match: func(b *models.DailyBar) bool {
			return b.Close > 10
		},
	},
	PlatformBreakthrough: {
		ID:   PlatformBreakthrough,
		Name: "突破平台策略",
		Cap:  25,
		Match: func(b *models.DailyBar) bool {
			return b.Volume > 1_000_000
		},
	},
	TurtleTrading: {
		ID:   TurtleTrading,
		Name: "海龟交易法则",
		Cap:  18,
		Match: func(b *models.DailyBar) bool {
			return b.Close > 5
		},
	},
	NarrowFlag: {
		ID:   NarrowFlag,
		Name: "高而窄的旗形",
		Cap:  12,
		Match: func(b *models.DailyBar) bool {
			return b.Volume > 800_000
		},
	},
	LowATRGrowth: {
		ID:   LowATRGrowth,
		Name: "低ATR成长",
		Cap:  22,
		Match: func(b *models.DailyBar) bool {
			return b.Close > 8
		},
	},
	FundamentalScreening: {
		ID:   FundamentalScreening,
		Name: "基本面选股",
		Cap:  35,
		Match: func(b *models.DailyBar) bool {
			return b.PERatio > 0 && b.PERatio <= 20 &&
				b.PBRatio > 0 && b.PBRatio <= 10
		},
	},
	VolumeLimitDown: {
		ID:   VolumeLimitDown,
		Name: "放量跌停",
		Cap:  8,
		Match: func(b *models.DailyBar) bool {
			return b.Turnover > 200_000_000 &&
				b.Volume > 2_000_000 &&
				b.Open > 0 && (b.Close-b.Open)/b.Open < -0.05
		},
	},
}

// Lookup resolves a strategy id, returning ErrUnknownStrategy for ids
// outside the registry.
func Lookup(id string) (Strategy, error) {
	s, ok := registry[StrategyID(id)]
	if !ok {
		return Strategy{}, &ErrUnknownStrategy{ID: id}
	}
	return s, nil
}

// All returns every registered strategy.
func All() []Strategy {
	out := make([]Strategy, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	return out
}
