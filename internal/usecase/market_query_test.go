package usecase

import (
	"context"
	"testing"

	"StockSage/internal/domain/models"
	"StockSage/internal/repository"
)

func TestRankingsActions(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	store.UpsertBars(ctx, []models.DailyBar{
		{Ticker: "UP", TradeDate: "2024-05-01", Open: 100, Close: 120, Volume: 10},
		{Ticker: "DOWN", TradeDate: "2024-05-01", Open: 100, Close: 80, Volume: 50},
		{Ticker: "BUSY", TradeDate: "2024-05-01", Open: 100, Close: 101, Volume: 900},
	})

	svc := NewQueryService(store, store, nil, nil, testLogger(t), 0)

	gainers, err := svc.Rankings(ctx, &models.MarketRankingRequest{Action: "gainers", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if gainers[0].Ticker != "UP" {
		t.Errorf("gainers[0] = %s, want UP", gainers[0].Ticker)
	}

	losers, err := svc.Rankings(ctx, &models.MarketRankingRequest{Action: "losers", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if losers[0].Ticker != "DOWN" {
		t.Errorf("losers[0] = %s, want DOWN", losers[0].Ticker)
	}

	volume, err := svc.Rankings(ctx, &models.MarketRankingRequest{Action: "volume", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if volume[0].Ticker != "BUSY" {
		t.Errorf("volume[0] = %s, want BUSY", volume[0].Ticker)
	}
}

func TestIndicesFallsBackToProvider(t *testing.T) {
	store := repository.NewMemoryStore()
	provider := &stubIndexProvider{indices: []models.MarketIndex{
		{Code: "sh000001", Name: "上证指数", Price: 3005},
	}}
	svc := NewQueryService(store, store, provider, nil, testLogger(t), 0)

	ctx := context.Background()
	indices, err := svc.Indices(ctx, &models.MarketIndicesRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(indices) != 1 || indices[0].Code != "sh000001" {
		t.Fatalf("unexpected indices: %+v", indices)
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}

	// provider result was backfilled into the store
	stored, err := store.ListIndices(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Errorf("store not backfilled: %d", len(stored))
	}

	// second read comes from the store
	if _, err := svc.Indices(ctx, &models.MarketIndicesRequest{}); err != nil {
		t.Fatal(err)
	}
	if provider.calls != 1 {
		t.Errorf("store hit should not call provider again, calls = %d", provider.calls)
	}
}

func TestIndexRefresherUpdatesStore(t *testing.T) {
	store := repository.NewMemoryStore()
	provider := &stubIndexProvider{indices: []models.MarketIndex{
		{Code: "sh000001", Name: "上证指数", Price: 3100},
		{Code: "sz399001", Name: "深证成指", Price: 9600},
	}}
	r := NewIndexRefresher(provider, store, nil, nopMetrics{}, testLogger(t))

	ctx := context.Background()
	if err := r.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	stored, err := store.ListIndices(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored %d indices, want 2", len(stored))
	}
}

func TestIndexRefresherProviderFailure(t *testing.T) {
	store := repository.NewMemoryStore()
	provider := &stubIndexProvider{err: errUpstream}
	r := NewIndexRefresher(provider, store, nil, nopMetrics{}, testLogger(t))

	if err := r.Refresh(context.Background()); err == nil {
		t.Fatal("expected provider error to surface")
	}
}
