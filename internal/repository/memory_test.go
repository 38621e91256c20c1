package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockSage/internal/domain/models"
	domrepo "StockSage/internal/domain/repository"
)

func TestMemoryStoreUpsertStockIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if err := m.UpsertStock(ctx, &models.Stock{Ticker: "AAPL", Name: "Apple Inc"}); err != nil {
		t.Fatal(err)
	}
	if err := m.UpsertStock(ctx, &models.Stock{Ticker: "AAPL", Name: "Apple Inc Updated"}); err != nil {
		t.Fatal(err)
	}

	stocks, err := m.ListStocks(ctx, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(stocks) != 1 {
		t.Fatalf("expected 1 stock after double upsert, got %d", len(stocks))
	}
	if stocks[0].Name != "Apple Inc Updated" {
		t.Errorf("second upsert did not win: %s", stocks[0].Name)
	}
}

func TestMemoryStoreGetStockNotFound(t *testing.T) {
	m := NewMemoryStore()
	_, err := m.GetStock(context.Background(), "MISSING")
	if !errors.Is(err, domrepo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreUpsertBarsByKey(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	bars := []models.DailyBar{
		{Ticker: "AAPL", TradeDate: "2024-01-02", Close: 100},
		{Ticker: "AAPL", TradeDate: "2024-01-03", Close: 101},
		{Ticker: "AAPL", TradeDate: "2024-01-03", Close: 105}, // same key, overwrites
	}
	if err := m.UpsertBars(ctx, bars); err != nil {
		t.Fatal(err)
	}

	got, err := m.LatestBars(ctx, "AAPL", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(got))
	}
	if got[0].TradeDate != "2024-01-03" {
		t.Errorf("bars not most-recent-first: %s", got[0].TradeDate)
	}
	if got[0].Close != 105 {
		t.Errorf("re-ingested bar did not overwrite: close=%v", got[0].Close)
	}
}

func TestMemoryStoreLatestBarsLimit(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	for i := 1; i <= 9; i++ {
		date := time.Date(2024, 1, i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		m.UpsertBars(ctx, []models.DailyBar{{Ticker: "TSLA", TradeDate: date, Close: float64(i)}})
	}
	got, err := m.LatestBars(ctx, "TSLA", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(got))
	}
	if got[0].TradeDate != "2024-01-09" || got[2].TradeDate != "2024-01-07" {
		t.Errorf("wrong window: %s .. %s", got[0].TradeDate, got[2].TradeDate)
	}
}

func TestMemoryStoreRankedQuotes(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.UpsertBars(ctx, []models.DailyBar{
		{Ticker: "UP", TradeDate: "2024-01-02", Open: 100, Close: 110, Volume: 10},
		{Ticker: "DOWN", TradeDate: "2024-01-02", Open: 100, Close: 90, Volume: 30},
		{Ticker: "FLAT", TradeDate: "2024-01-02", Open: 100, Close: 100, Volume: 20},
	})

	gainers, err := m.RankedQuotes(ctx, domrepo.RankByChangePercent, false, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(gainers) != 2 || gainers[0].Ticker != "UP" {
		t.Fatalf("gainers wrong: %+v", gainers)
	}

	losers, err := m.RankedQuotes(ctx, domrepo.RankByChangePercent, true, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(losers) != 1 || losers[0].Ticker != "DOWN" {
		t.Fatalf("losers wrong: %+v", losers)
	}

	byVolume, err := m.RankedQuotes(ctx, domrepo.RankByVolume, false, 3)
	if err != nil {
		t.Fatal(err)
	}
	if byVolume[0].Ticker != "DOWN" || byVolume[2].Ticker != "UP" {
		t.Fatalf("volume ranking wrong: %+v", byVolume)
	}
}

func TestMemoryStoreCountAnalysesWindow(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	insert := func(userID string, at time.Time) {
		m.InsertAnalysis(ctx, &models.Analysis{UserID: userID, Ticker: "AAPL", CreatedAt: at})
	}
	insert("u1", day.Add(1*time.Hour))
	insert("u1", day.Add(23*time.Hour))
	insert("u1", day.Add(-1*time.Hour)) // previous day
	insert("u2", day.Add(2*time.Hour))  // other user

	n, err := m.CountAnalyses(ctx, "u1", day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("CountAnalyses = %d, want 2", n)
	}
}

func TestMemoryStoreIndices(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.UpsertIndices(ctx, []models.MarketIndex{
		{Code: "sh000001", Name: "上证指数", Price: 3000},
		{Code: "sz399001", Name: "深证成指", Price: 9500, IsTestData: true},
	})
	m.UpsertIndices(ctx, []models.MarketIndex{
		{Code: "sh000001", Name: "上证指数", Price: 3010},
	})

	all, err := m.ListIndices(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 indices, got %d", len(all))
	}
	if all[0].Price != 3010 {
		t.Errorf("re-upserted index did not overwrite: %v", all[0].Price)
	}

	real, err := m.ListIndices(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(real) != 1 || real[0].Code != "sh000001" {
		t.Fatalf("test data not filtered: %+v", real)
	}
}
