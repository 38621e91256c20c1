// Package usecase wires domain services, storage and providers into the
// operations the HTTP layer exposes.
package usecase

import (
	"context"
	"time"

	"StockSage/internal/domain/models"
	domrepo "StockSage/internal/domain/repository"
	domservice "StockSage/internal/domain/service"
	"StockSage/internal/services/indicators"
	applogger "StockSage/pkg/logger"
	"StockSage/pkg/util"
)

const unknown = "未知"

// SyncService serves per-ticker market data, refreshing stale records from
// the upstream provider on demand.
type SyncService struct {
	store     domrepo.StockStore
	provider  domservice.MarketDataProvider
	publisher domrepo.EventPublisher
	metrics   domrepo.Metrics
	l         *applogger.Logger
	syncTopic string
}

func NewSyncService(
	store domrepo.StockStore,
	provider domservice.MarketDataProvider,
	publisher domrepo.EventPublisher,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	syncTopic string,
) *SyncService {
	return &SyncService{
		store:     store,
		provider:  provider,
		publisher: publisher,
		metrics:   metrics,
		l:         l,
		syncTopic: syncTopic,
	}
}

// StockData returns the stock record, the bar window for the requested
// period and the derived indicators. Data older than the current UTC day is
// refreshed from the provider first; if the refresh fails but stale bars
// exist, the stale data is served rather than erroring.
func (s *SyncService) StockData(ctx context.Context, req *models.StockDataRequest) (*models.StockDataResponse, error) {
	period := domrepo.NormalizePeriod(req.Period)

	bars, err := s.store.LatestBars(ctx, req.Ticker, 1)
	if err != nil {
		return nil, err
	}
	today := util.DayKey(time.Now())
	stale := len(bars) == 0 || bars[0].TradeDate < today

	if req.Force || stale {
		if err := s.refresh(ctx, req.Ticker); err != nil {
			if len(bars) == 0 {
				return nil, err
			}
			s.l.Warn("serving stale data after refresh failure",
				applogger.String("ticker", req.Ticker),
				applogger.Error(err),
			)
		}
	}

	stock, err := s.store.GetStock(ctx, req.Ticker)
	if err != nil {
		return nil, err
	}
	window, err := s.store.LatestBars(ctx, req.Ticker, period.Days())
	if err != nil {
		return nil, err
	}
	ind := indicators.Compute(window)

	// store order is most-recent-first; the response window is chronological
	chrono := make([]models.DailyBar, len(window))
	for i, b := range window {
		chrono[len(window)-1-i] = b
	}

	lastUpdated := time.Now().UTC()
	if len(window) > 0 {
		lastUpdated = window[0].CreatedAt
	}

	return &models.StockDataResponse{
		StockInfo:   stock,
		StockData:   chrono,
		Indicators:  ind,
		Period:      string(period),
		LastUpdated: lastUpdated.UTC().Format(time.RFC3339),
	}, nil
}

// refresh pulls fundamentals and the daily series from the provider and
// upserts both. Bars are stamped with the fundamentals snapshot that is
// current now; turnover is approximated as close * volume because the
// provider does not report it.
func (s *SyncService) refresh(ctx context.Context, ticker string) error {
	now := time.Now().UTC()

	overview, err := s.provider.Overview(ctx, ticker)
	if err != nil {
		s.metrics.RecordProviderFetch("alphavantage", "error")
		return err
	}
	series, err := s.provider.DailySeries(ctx, ticker)
	if err != nil {
		s.metrics.RecordProviderFetch("alphavantage", "error")
		return err
	}
	s.metrics.RecordProviderFetch("alphavantage", "ok")

	stock := &models.Stock{
		Ticker:     ticker,
		Name:       orUnknown(overview.Name),
		Market:     orUnknown(overview.Exchange),
		Industry:   orUnknown(overview.Industry),
		Sector:     orUnknown(overview.Sector),
		DataSource: "alphavantage",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.UpsertStock(ctx, stock); err != nil {
		return err
	}

	bars := make([]models.DailyBar, 0, len(series))
	for _, r := range series {
		bars = append(bars, models.DailyBar{
			Ticker:    ticker,
			TradeDate: r.Date,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
			Turnover:  r.Close * float64(r.Volume),
			PERatio:   overview.PERatio,
			PBRatio:   overview.PBRatio,
			MarketCap: overview.MarketCap,
			CreatedAt: now,
		})
	}
	if err := s.store.UpsertBars(ctx, bars); err != nil {
		return err
	}

	if len(bars) > 0 {
		s.metrics.RecordLastPrice(ticker, bars[0].Close)
	}
	s.publishSyncEvent(ctx, ticker, len(bars))
	s.l.Info("market data refreshed",
		applogger.String("ticker", ticker),
		applogger.Int("bars", len(bars)),
	)
	return nil
}

func (s *SyncService) publishSyncEvent(ctx context.Context, ticker string, bars int) {
	if s.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"ticker":    ticker,
		"bars":      bars,
		"synced_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.Publish(ctx, s.syncTopic, []byte(ticker), event); err != nil {
		s.l.Warn("sync event publish failed",
			applogger.String("ticker", ticker),
			applogger.Error(err),
		)
	}
}

func orUnknown(v string) string {
	if v == "" {
		return unknown
	}
	return v
}
