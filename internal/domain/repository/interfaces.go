package repository

import (
	"context"
	"errors"
	"time"

	"StockSage/internal/domain/models"
)

// ErrNotFound reports a lookup for a key that has no record.
var ErrNotFound = errors.New("record not found")

// StockStore is the keyed record store for instruments and daily bars.
// Upserts are idempotent: writing the same key twice leaves one row.
type StockStore interface {
	UpsertStock(ctx context.Context, s *models.Stock) error
	GetStock(ctx context.Context, ticker string) (*models.Stock, error)
	ListStocks(ctx context.Context, limit int, includeTestData bool) ([]models.Stock, error)

	// UpsertBars writes bars keyed by (ticker, trade_date), overwrite on conflict.
	UpsertBars(ctx context.Context, bars []models.DailyBar) error
	// LatestBars returns up to n bars for ticker, most recent first.
	LatestBars(ctx context.Context, ticker string, n int) ([]models.DailyBar, error)
	// RankedQuotes returns latest-bar projections ordered by the given rank
	// column, for the market ranking endpoints.
	RankedQuotes(ctx context.Context, rank RankBy, ascending bool, limit int) ([]models.StockQuote, error)

	Health(ctx context.Context) error
	Close() error
}

// RankBy selects the ordering column for ranking queries.
type RankBy string

const (
	RankByChangePercent RankBy = "change_percent"
	RankByVolume        RankBy = "volume"
)

// AnalysisStore persists AI analyses and counts them for quota checks.
type AnalysisStore interface {
	InsertAnalysis(ctx context.Context, a *models.Analysis) error
	// CountAnalyses counts rows for user with created_at in [from, to).
	CountAnalyses(ctx context.Context, userID string, from, to time.Time) (int, error)
}

// IndexStore holds market index snapshots.
type IndexStore interface {
	UpsertIndices(ctx context.Context, indices []models.MarketIndex) error
	ListIndices(ctx context.Context, includeTestData bool) ([]models.MarketIndex, error)
}

// EventPublisher emits domain events (completed analyses, sync completions).
// Publishing is best-effort; failures must never fail the request.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// Metrics records operational telemetry.
type Metrics interface {
	RecordProviderFetch(provider, outcome string)
	RecordModelInvocation(outcome string)
	RecordScreenDuration(strategy string, seconds float64)
	RecordQuotaRejection()
	RecordLastPrice(ticker string, price float64)
}
