package service

import (
	"context"

	"StockSage/internal/domain/models"
)

// Overview is the fundamentals snapshot returned by the market data provider.
type Overview struct {
	Ticker      string
	Name        string
	Industry    string
	Sector      string
	Exchange    string
	Description string
	PERatio     float64
	PBRatio     float64
	MarketCap   float64
}

// DailyRecord is one raw daily record from the provider time series.
type DailyRecord struct {
	Date   string // YYYY-MM-DD
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// MarketDataProvider fetches fundamentals and daily time series for a ticker.
type MarketDataProvider interface {
	Overview(ctx context.Context, ticker string) (*Overview, error)
	DailySeries(ctx context.Context, ticker string) ([]DailyRecord, error)
}

// IndexProvider fetches market index snapshots.
type IndexProvider interface {
	Indices(ctx context.Context) ([]models.MarketIndex, error)
}

// TextGenerator invokes an external generative-language model with a prompt
// and returns the generated free text. A structurally empty response is an
// error, not an empty string.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
