package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"StockSage/internal/domain/models"
	domrepo "StockSage/internal/domain/repository"
	"StockSage/internal/repository"
	"StockSage/internal/services/analysis"
)

func newAnalyzeFixture(t *testing.T, gen *stubGenerator) (*AnalyzeService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewAnalyzeService(
		store, store, gen, analysis.NewParser(nil), nil, nopMetrics{},
		testLogger(t), 10, 30, 10, "analysis.events",
	)
	return svc, store
}

func seedStock(t *testing.T, store *repository.MemoryStore, ticker string) {
	t.Helper()
	ctx := context.Background()
	if err := store.UpsertStock(ctx, &models.Stock{Ticker: ticker, Name: "Apple Inc", Market: "NASDAQ"}); err != nil {
		t.Fatal(err)
	}
	bars := make([]models.DailyBar, 0, 30)
	for i := 1; i <= 30; i++ {
		date := time.Date(2024, 1, i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		bars = append(bars, models.DailyBar{
			Ticker: ticker, TradeDate: date,
			Open: 100, Close: 100 + float64(i), Volume: 1000,
		})
	}
	if err := store.UpsertBars(ctx, bars); err != nil {
		t.Fatal(err)
	}
}

func TestAnalyzeFullPipeline(t *testing.T) {
	gen := &stubGenerator{text: "技术面向好，建议买入，看好后市。置信度：9"}
	svc, store := newAnalyzeFixture(t, gen)
	seedStock(t, store, "AAPL")

	resp, err := svc.Analyze(context.Background(), &models.AnalyzeRequest{
		Ticker: "AAPL", UserID: "u1", AnalysisType: "comprehensive",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Recommendation != models.RecommendBuy {
		t.Errorf("Recommendation = %s, want BUY", resp.Recommendation)
	}
	if resp.ConfidenceScore != 0.9 {
		t.Errorf("ConfidenceScore = %v, want 0.9", resp.ConfidenceScore)
	}
	if resp.RiskLevel != models.RiskLow {
		t.Errorf("RiskLevel = %s, want LOW", resp.RiskLevel)
	}
	if resp.RemainingAnalyses != 9 {
		t.Errorf("RemainingAnalyses = %d, want 9", resp.RemainingAnalyses)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "AAPL") {
		t.Error("prompt did not embed the ticker")
	}

	// the analysis was persisted into the quota window
	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	n, err := store.CountAnalyses(context.Background(), "u1", day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("persisted analyses = %d, want 1", n)
	}
}

func TestAnalyzeQuotaExhausted(t *testing.T) {
	gen := &stubGenerator{text: "建议持有"}
	svc, store := newAnalyzeFixture(t, gen)
	seedStock(t, store, "AAPL")

	ctx := context.Background()
	now := time.Now().UTC()
	for i := 0; i < 10; i++ {
		store.InsertAnalysis(ctx, &models.Analysis{UserID: "u1", Ticker: "AAPL", CreatedAt: now})
	}

	_, err := svc.Analyze(ctx, &models.AnalyzeRequest{Ticker: "AAPL", UserID: "u1"})
	var qe *QuotaError
	if !errors.As(err, &qe) {
		t.Fatalf("expected QuotaError, got %v", err)
	}
	if qe.Limit != 10 {
		t.Errorf("QuotaError.Limit = %d, want 10", qe.Limit)
	}
	if len(gen.prompts) != 0 {
		t.Error("model must not be invoked once quota is exhausted")
	}

	// other users are unaffected
	if _, err := svc.Analyze(ctx, &models.AnalyzeRequest{Ticker: "AAPL", UserID: "u2"}); err != nil {
		t.Fatalf("other user blocked: %v", err)
	}
}

func TestAnalyzeUnknownTicker(t *testing.T) {
	gen := &stubGenerator{text: "建议买入"}
	svc, _ := newAnalyzeFixture(t, gen)

	_, err := svc.Analyze(context.Background(), &models.AnalyzeRequest{Ticker: "NOPE", UserID: "u1"})
	if !errors.Is(err, domrepo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalyzeModelFailureDoesNotConsumeQuota(t *testing.T) {
	gen := &stubGenerator{err: errUpstream}
	svc, store := newAnalyzeFixture(t, gen)
	seedStock(t, store, "AAPL")

	ctx := context.Background()
	if _, err := svc.Analyze(ctx, &models.AnalyzeRequest{Ticker: "AAPL", UserID: "u1"}); err == nil {
		t.Fatal("expected model error")
	}
	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	n, _ := store.CountAnalyses(ctx, "u1", day, day.Add(24*time.Hour))
	if n != 0 {
		t.Errorf("failed invocation consumed quota: count=%d", n)
	}
}

func TestQuickAnalyzeNoPersistence(t *testing.T) {
	gen := &stubGenerator{text: "短期回调风险较大，建议卖出。综合评分：4"}
	svc, store := newAnalyzeFixture(t, gen)

	resp, err := svc.QuickAnalyze(context.Background(), &models.QuickAnalyzeRequest{
		Ticker: "TSLA", StockName: "Tesla", CurrentPrice: 250.5,
		PriceHistory: []models.QuickPricePoint{{Price: 248, Change: "1.2"}},
		AnalysisType: "comprehensive",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Recommendation != models.RecommendSell {
		t.Errorf("Recommendation = %s, want SELL", resp.Recommendation)
	}
	if resp.OverallScore == nil || *resp.OverallScore != 4 {
		t.Errorf("OverallScore = %v, want 4", resp.OverallScore)
	}

	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	n, _ := store.CountAnalyses(context.Background(), "", day, day.Add(24*time.Hour))
	if n != 0 {
		t.Error("quick analysis must not persist anything")
	}
	if !strings.Contains(gen.prompts[0], "Tesla") {
		t.Error("quick prompt did not embed the stock name")
	}
}
