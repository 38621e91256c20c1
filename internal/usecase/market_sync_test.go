package usecase

import (
	"context"
	"testing"
	"time"

	"StockSage/internal/domain/models"
	domservice "StockSage/internal/domain/service"
	"StockSage/internal/repository"
)

func newSyncFixture(t *testing.T, p *stubProvider) (*SyncService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewSyncService(store, p, nil, nopMetrics{}, testLogger(t), "sync.events")
	return svc, store
}

func recentSeries(n int) []domservice.DailyRecord {
	out := make([]domservice.DailyRecord, 0, n)
	day := time.Now().UTC()
	for i := 0; i < n; i++ {
		out = append(out, domservice.DailyRecord{
			Date:   day.AddDate(0, 0, -i).Format("2006-01-02"),
			Open:   100,
			High:   112,
			Low:    99,
			Close:  110,
			Volume: 5000,
		})
	}
	return out
}

func TestStockDataFetchesWhenEmpty(t *testing.T) {
	p := &stubProvider{
		overview: &domservice.Overview{Name: "Apple Inc", Exchange: "NASDAQ", Industry: "Consumer Electronics", PERatio: 28, PBRatio: 45, MarketCap: 3e12},
		series:   recentSeries(40),
	}
	svc, _ := newSyncFixture(t, p)

	resp, err := svc.StockData(context.Background(), &models.StockDataRequest{Ticker: "AAPL", Period: "1M"})
	if err != nil {
		t.Fatal(err)
	}
	if p.calls != 1 {
		t.Errorf("provider calls = %d, want 1", p.calls)
	}
	if resp.StockInfo.Name != "Apple Inc" {
		t.Errorf("stock name = %s", resp.StockInfo.Name)
	}
	if len(resp.StockData) != 30 {
		t.Errorf("1M window = %d bars, want 30", len(resp.StockData))
	}
	if resp.Period != "1M" {
		t.Errorf("period = %s", resp.Period)
	}
	if resp.Indicators == nil || resp.Indicators.Empty() {
		t.Error("expected indicators for a 30-bar window")
	}

	// fundamentals stamped on every bar, turnover approximated
	b := resp.StockData[0]
	if b.PERatio != 28 || b.MarketCap != 3e12 {
		t.Errorf("fundamentals not stamped: pe=%v cap=%v", b.PERatio, b.MarketCap)
	}
	if b.Turnover != b.Close*float64(b.Volume) {
		t.Errorf("turnover = %v, want close*volume", b.Turnover)
	}
}

func TestStockDataUnknownDefaults(t *testing.T) {
	p := &stubProvider{
		overview: &domservice.Overview{},
		series:   recentSeries(5),
	}
	svc, _ := newSyncFixture(t, p)

	resp, err := svc.StockData(context.Background(), &models.StockDataRequest{Ticker: "XXXX", Period: "1W"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StockInfo.Name != "未知" || resp.StockInfo.Industry != "未知" {
		t.Errorf("missing fundamentals must default to 未知: %+v", resp.StockInfo)
	}
}

func TestStockDataChronologicalWindow(t *testing.T) {
	p := &stubProvider{err: errUpstream}
	svc, store := newSyncFixture(t, p)
	ctx := context.Background()

	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.UpsertStock(ctx, &models.Stock{Ticker: "AAPL", Name: "Apple Inc"})
	day := time.Now().UTC()
	bars := make([]models.DailyBar, 0, 7)
	for i := 0; i < 7; i++ {
		bars = append(bars, models.DailyBar{
			Ticker:    "AAPL",
			TradeDate: day.AddDate(0, 0, -i).Format("2006-01-02"),
			Close:     100 + float64(i),
			CreatedAt: stamp,
		})
	}
	if err := store.UpsertBars(ctx, bars); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.StockData(ctx, &models.StockDataRequest{Ticker: "AAPL", Period: "1W"})
	if err != nil {
		t.Fatal(err)
	}
	if p.calls != 0 {
		t.Errorf("fresh data must not hit the provider, calls = %d", p.calls)
	}
	if len(resp.StockData) != 7 {
		t.Fatalf("1W window = %d bars, want 7", len(resp.StockData))
	}
	for i := 1; i < len(resp.StockData); i++ {
		if resp.StockData[i-1].TradeDate >= resp.StockData[i].TradeDate {
			t.Fatalf("window not ascending at %d: %s >= %s",
				i, resp.StockData[i-1].TradeDate, resp.StockData[i].TradeDate)
		}
	}
	if want := stamp.Format(time.RFC3339); resp.LastUpdated != want {
		t.Errorf("last_updated = %s, want newest bar created_at %s", resp.LastUpdated, want)
	}
}

func TestStockDataSkipsFetchWhenFresh(t *testing.T) {
	p := &stubProvider{
		overview: &domservice.Overview{Name: "Apple Inc"},
		series:   recentSeries(10),
	}
	svc, store := newSyncFixture(t, p)
	ctx := context.Background()

	store.UpsertStock(ctx, &models.Stock{Ticker: "AAPL", Name: "Apple Inc"})
	store.UpsertBars(ctx, []models.DailyBar{{
		Ticker:    "AAPL",
		TradeDate: time.Now().UTC().Format("2006-01-02"),
		Close:     100,
	}})

	if _, err := svc.StockData(ctx, &models.StockDataRequest{Ticker: "AAPL", Period: "1D"}); err != nil {
		t.Fatal(err)
	}
	if p.calls != 0 {
		t.Errorf("fresh data must not hit the provider, calls = %d", p.calls)
	}
}

func TestStockDataForceRefetches(t *testing.T) {
	p := &stubProvider{
		overview: &domservice.Overview{Name: "Apple Inc"},
		series:   recentSeries(10),
	}
	svc, store := newSyncFixture(t, p)
	ctx := context.Background()

	store.UpsertStock(ctx, &models.Stock{Ticker: "AAPL", Name: "Apple Inc"})
	store.UpsertBars(ctx, []models.DailyBar{{
		Ticker:    "AAPL",
		TradeDate: time.Now().UTC().Format("2006-01-02"),
		Close:     100,
	}})

	if _, err := svc.StockData(ctx, &models.StockDataRequest{Ticker: "AAPL", Period: "1D", Force: true}); err != nil {
		t.Fatal(err)
	}
	if p.calls != 1 {
		t.Errorf("force must hit the provider, calls = %d", p.calls)
	}
}

func TestStockDataServesStaleOnProviderFailure(t *testing.T) {
	p := &stubProvider{err: errUpstream}
	svc, store := newSyncFixture(t, p)
	ctx := context.Background()

	store.UpsertStock(ctx, &models.Stock{Ticker: "AAPL", Name: "Apple Inc"})
	store.UpsertBars(ctx, []models.DailyBar{{
		Ticker:    "AAPL",
		TradeDate: "2024-01-02", // stale
		Close:     95,
	}})

	resp, err := svc.StockData(ctx, &models.StockDataRequest{Ticker: "AAPL", Period: "1M"})
	if err != nil {
		t.Fatalf("stale data should be served when refresh fails: %v", err)
	}
	if len(resp.StockData) != 1 || resp.StockData[0].Close != 95 {
		t.Errorf("unexpected stale payload: %+v", resp.StockData)
	}
}

func TestStockDataErrorsWhenNothingAvailable(t *testing.T) {
	p := &stubProvider{err: errUpstream}
	svc, _ := newSyncFixture(t, p)

	if _, err := svc.StockData(context.Background(), &models.StockDataRequest{Ticker: "AAPL", Period: "1M"}); err == nil {
		t.Fatal("expected error with no stored data and a failing provider")
	}
}
