package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"StockSage/internal/domain/models"
	"StockSage/internal/repository"
	"StockSage/internal/services/screener"
)

func newScreenFixture(t *testing.T, store *repository.MemoryStore) *ScreenService {
	t.Helper()
	return NewScreenService(store, nil, nopMetrics{}, testLogger(t), 20, 5, 0)
}

func TestScreenUnknownStrategy(t *testing.T) {
	svc := newScreenFixture(t, repository.NewMemoryStore())
	_, err := svc.Screen(context.Background(), "no_such_strategy")
	var unknown *screener.ErrUnknownStrategy
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestScreenMatchesAndRankOrder(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	// three surging candidates and one flat one, volume-ranked universe
	bars := []models.DailyBar{
		{Ticker: "HOT1", TradeDate: "2024-05-01", Open: 10, Close: 11, Volume: 9_000_000, Turnover: 9e8},
		{Ticker: "HOT2", TradeDate: "2024-05-01", Open: 20, Close: 22, Volume: 8_000_000, Turnover: 8e8},
		{Ticker: "HOT3", TradeDate: "2024-05-01", Open: 30, Close: 31, Volume: 7_000_000, Turnover: 7e8},
		{Ticker: "COLD", TradeDate: "2024-05-01", Open: 10, Close: 9, Volume: 6_000_000, Turnover: 6e8},
	}
	if err := store.UpsertBars(ctx, bars); err != nil {
		t.Fatal(err)
	}

	svc := newScreenFixture(t, store)
	res, err := svc.Screen(ctx, "volume_surge")
	if err != nil {
		t.Fatal(err)
	}
	if res.StrategyName != "放量上涨策略" {
		t.Errorf("StrategyName = %s", res.StrategyName)
	}
	if len(res.Quotes) != 3 {
		t.Fatalf("matched %d, want 3", len(res.Quotes))
	}
	// universe is volume-ranked; matches must keep that order
	for i, want := range []string{"HOT1", "HOT2", "HOT3"} {
		if res.Quotes[i].Ticker != want {
			t.Errorf("quote[%d] = %s, want %s", i, res.Quotes[i].Ticker, want)
		}
	}
}

func TestScreenCapTruncation(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	// volume_limit_down caps at 8; seed 12 matching candidates
	for i := 0; i < 12; i++ {
		store.UpsertBars(ctx, []models.DailyBar{{
			Ticker:    fmt.Sprintf("T%02d", i),
			TradeDate: "2024-05-01",
			Open:      10, Close: 9, // -10%
			Volume:   3_000_000,
			Turnover: 3e8,
		}})
	}

	svc := NewScreenService(store, nil, nopMetrics{}, testLogger(t), 20, 3, 0)
	res, err := svc.Screen(ctx, "volume_limit_down")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Quotes) != 8 {
		t.Fatalf("cap not applied: got %d, want 8", len(res.Quotes))
	}
}

// flakyBarStore fails latest-bar resolution for one ticker.
type flakyBarStore struct {
	*repository.MemoryStore
	failTicker string
}

func (s *flakyBarStore) LatestBars(ctx context.Context, ticker string, n int) ([]models.DailyBar, error) {
	if ticker == s.failTicker {
		return nil, errUpstream
	}
	return s.MemoryStore.LatestBars(ctx, ticker, n)
}

func TestScreenSurfacesBarFetchFailure(t *testing.T) {
	mem := repository.NewMemoryStore()
	ctx := context.Background()
	mem.UpsertBars(ctx, []models.DailyBar{
		{Ticker: "HOT1", TradeDate: "2024-05-01", Open: 10, Close: 11, Volume: 9_000_000, Turnover: 9e8},
		{Ticker: "HOT2", TradeDate: "2024-05-01", Open: 20, Close: 22, Volume: 8_000_000, Turnover: 8e8},
	})

	store := &flakyBarStore{MemoryStore: mem, failTicker: "HOT2"}
	svc := NewScreenService(store, nil, nopMetrics{}, testLogger(t), 20, 5, 0)
	if _, err := svc.Screen(ctx, "volume_surge"); !errors.Is(err, errUpstream) {
		t.Fatalf("expected bar fetch failure to surface, got %v", err)
	}
}

func TestScreenEmptyUniverse(t *testing.T) {
	svc := newScreenFixture(t, repository.NewMemoryStore())
	res, err := svc.Screen(context.Background(), "value_strategy")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Quotes) != 0 {
		t.Errorf("expected no matches on empty universe, got %d", len(res.Quotes))
	}
}
