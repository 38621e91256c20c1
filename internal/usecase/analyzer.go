package usecase

import (
	"context"
	"fmt"
	"time"

	"StockSage/internal/domain/models"
	domrepo "StockSage/internal/domain/repository"
	domservice "StockSage/internal/domain/service"
	"StockSage/internal/services/analysis"
	applogger "StockSage/pkg/logger"
	"StockSage/pkg/util"
)

// QuotaError reports a user over the daily analysis limit. ResetAt is the
// start of the next UTC day.
type QuotaError struct {
	Limit   int
	ResetAt time.Time
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("daily analysis limit of %d reached", e.Limit)
}

// AnalyzeService orchestrates AI analysis: quota check, data assembly,
// model invocation, parsing and persistence.
type AnalyzeService struct {
	store         domrepo.StockStore
	analysisStore domrepo.AnalysisStore
	generator     domservice.TextGenerator
	parser        *analysis.Parser
	publisher     domrepo.EventPublisher
	metrics       domrepo.Metrics
	l             *applogger.Logger

	dailyLimit    int
	historyBars   int
	promptBars    int
	analysisTopic string
}

func NewAnalyzeService(
	store domrepo.StockStore,
	analysisStore domrepo.AnalysisStore,
	generator domservice.TextGenerator,
	parser *analysis.Parser,
	publisher domrepo.EventPublisher,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	dailyLimit, historyBars, promptBars int,
	analysisTopic string,
) *AnalyzeService {
	if dailyLimit <= 0 {
		dailyLimit = 10
	}
	if historyBars <= 0 {
		historyBars = 30
	}
	if promptBars <= 0 {
		promptBars = 10
	}
	return &AnalyzeService{
		store:         store,
		analysisStore: analysisStore,
		generator:     generator,
		parser:        parser,
		publisher:     publisher,
		metrics:       metrics,
		l:             l,
		dailyLimit:    dailyLimit,
		historyBars:   historyBars,
		promptBars:    promptBars,
		analysisTopic: analysisTopic,
	}
}

// Analyze runs the full pipeline for a stored ticker. The quota window is
// the current UTC calendar day; the response reports how many analyses the
// user has left after this one.
func (s *AnalyzeService) Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	now := time.Now().UTC()
	dayStart, dayEnd := util.UTCDayWindow(now)

	count, err := s.analysisStore.CountAnalyses(ctx, req.UserID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if count >= s.dailyLimit {
		s.metrics.RecordQuotaRejection()
		return nil, &QuotaError{Limit: s.dailyLimit, ResetAt: dayEnd}
	}

	stock, err := s.store.GetStock(ctx, req.Ticker)
	if err != nil {
		return nil, err
	}
	bars, err := s.store.LatestBars(ctx, req.Ticker, s.historyBars)
	if err != nil {
		return nil, err
	}

	var latest *models.DailyBar
	if len(bars) > 0 {
		latest = &bars[0]
	}
	prompt := analysis.BuildPrompt(analysis.PromptInput{
		Stock:   stock,
		Latest:  latest,
		History: pricePoints(bars, s.promptBars),
	})

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.metrics.RecordModelInvocation("error")
		return nil, err
	}
	s.metrics.RecordModelInvocation("ok")

	parsed := s.parser.Parse(text)
	record := &models.Analysis{
		UserID:          req.UserID,
		Ticker:          req.Ticker,
		AnalysisType:    req.AnalysisType,
		Recommendation:  parsed.Recommendation,
		ConfidenceScore: parsed.Confidence,
		OverallScore:    parsed.OverallScore,
		RiskLevel:       parsed.RiskLevel,
		AnalysisText:    text,
		CreatedAt:       now,
	}
	// persistence failure must not lose a completed analysis
	if err := s.analysisStore.InsertAnalysis(ctx, record); err != nil {
		s.l.Error("analysis persist failed",
			applogger.String("ticker", req.Ticker),
			applogger.String("user_id", req.UserID),
			applogger.Error(err),
		)
	}
	s.publishAnalysisEvent(ctx, record)

	return &models.AnalyzeResponse{
		Ticker:            req.Ticker,
		AnalysisType:      req.AnalysisType,
		Recommendation:    parsed.Recommendation,
		ConfidenceScore:   parsed.Confidence,
		OverallScore:      parsed.OverallScore,
		RiskLevel:         parsed.RiskLevel,
		AnalysisText:      text,
		RemainingAnalyses: s.dailyLimit - count - 1,
		CreatedAt:         now.Format(time.RFC3339),
	}, nil
}

// QuickAnalyze runs the self-contained variant on caller-supplied data.
// No storage reads, no quota, nothing persisted.
func (s *AnalyzeService) QuickAnalyze(ctx context.Context, req *models.QuickAnalyzeRequest) (*models.QuickAnalyzeResponse, error) {
	history := make([]models.PricePoint, 0, len(req.PriceHistory))
	for _, p := range req.PriceHistory {
		history = append(history, models.PricePoint{Price: p.Price, Change: p.Change})
	}
	in := analysis.QuickPromptInput{
		Ticker:       req.Ticker,
		StockName:    req.StockName,
		CurrentPrice: req.CurrentPrice,
		History:      history,
	}
	if req.Volume > 0 {
		in.Volume = &req.Volume
	}
	if req.MarketCap > 0 {
		in.MarketCap = &req.MarketCap
	}
	if req.PERatio > 0 {
		in.PERatio = &req.PERatio
	}

	text, err := s.generator.Generate(ctx, analysis.BuildQuickPrompt(in))
	if err != nil {
		s.metrics.RecordModelInvocation("error")
		return nil, err
	}
	s.metrics.RecordModelInvocation("ok")

	parsed := s.parser.Parse(text)
	return &models.QuickAnalyzeResponse{
		Ticker:          req.Ticker,
		AnalysisType:    req.AnalysisType,
		Recommendation:  parsed.Recommendation,
		ConfidenceScore: parsed.Confidence,
		OverallScore:    parsed.OverallScore,
		AnalysisText:    text,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (s *AnalyzeService) publishAnalysisEvent(ctx context.Context, a *models.Analysis) {
	if s.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"user_id":        a.UserID,
		"ticker":         a.Ticker,
		"recommendation": a.Recommendation,
		"confidence":     a.ConfidenceScore,
		"risk_level":     a.RiskLevel,
		"created_at":     a.CreatedAt.Format(time.RFC3339),
	}
	if err := s.publisher.Publish(ctx, s.analysisTopic, []byte(a.Ticker), event); err != nil {
		s.l.Warn("analysis event publish failed",
			applogger.String("ticker", a.Ticker),
			applogger.Error(err),
		)
	}
}

// pricePoints converts the most recent n bars (most recent first) into
// prompt history entries with intraday change percent.
func pricePoints(bars []models.DailyBar, n int) []models.PricePoint {
	if len(bars) > n {
		bars = bars[:n]
	}
	out := make([]models.PricePoint, 0, len(bars))
	for _, b := range bars {
		change := "N/A"
		if b.Open > 0 {
			change = fmt.Sprintf("%.2f", (b.Close-b.Open)/b.Open*100)
		}
		out = append(out, models.PricePoint{
			Date:   b.TradeDate,
			Price:  b.Close,
			Volume: b.Volume,
			Change: change,
		})
	}
	return out
}
