package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"StockSage/internal/domain/models"
	domrepo "StockSage/internal/domain/repository"
	"StockSage/internal/services/screener"
	"StockSage/pkg/cache"
	applogger "StockSage/pkg/logger"
)

// ScreenResult is one strategy run: matched quotes in universe rank order,
// truncated to the strategy cap.
type ScreenResult struct {
	Strategy     screener.StrategyID `json:"strategy"`
	StrategyName string              `json:"strategy_name"`
	Quotes       []models.StockQuote `json:"quotes"`
}

// ScreenService runs screening strategies over the stock universe with
// bounded concurrency.
type ScreenService struct {
	store        domrepo.StockStore
	cache        cache.Service
	metrics      domrepo.Metrics
	l            *applogger.Logger
	universeSize int
	concurrency  int
	cacheTTL     time.Duration
}

func NewScreenService(
	store domrepo.StockStore,
	cacheSvc cache.Service,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	universeSize, concurrency int,
	cacheTTL time.Duration,
) *ScreenService {
	if universeSize <= 0 {
		universeSize = 20
	}
	if concurrency <= 0 {
		concurrency = 5
	}
	return &ScreenService{
		store:        store,
		cache:        cacheSvc,
		metrics:      metrics,
		l:            l,
		universeSize: universeSize,
		concurrency:  concurrency,
		cacheTTL:     cacheTTL,
	}
}

// Screen evaluates the named strategy against the universe. Results keep
// the universe's rank order regardless of evaluation completion order.
func (s *ScreenService) Screen(ctx context.Context, strategyID string) (*ScreenResult, error) {
	strat, err := screener.Lookup(strategyID)
	if err != nil {
		return nil, err
	}

	cacheKey := "screen:" + strategyID
	if s.cache != nil {
		var cached ScreenResult
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.l.Warn("screen cache read failed", applogger.Error(err))
		}
	}

	start := time.Now()
	universe, err := s.store.RankedQuotes(ctx, domrepo.RankByVolume, false, s.universeSize)
	if err != nil {
		return nil, err
	}

	// rank-stable fan-out: workers resolve each candidate's latest bar and
	// write into their own slot
	matched := make([]*models.StockQuote, len(universe))
	fetchErrs := make([]error, len(universe))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for i := range universe {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			q := universe[i]
			bars, err := s.store.LatestBars(ctx, q.Ticker, 1)
			if err != nil {
				fetchErrs[i] = err
				return
			}
			if len(bars) == 0 {
				return
			}
			if strat.Match(&bars[0]) {
				matched[i] = &q
			}
		}(i)
	}
	wg.Wait()
	for _, err := range fetchErrs {
		if err != nil {
			return nil, err
		}
	}

	quotes := make([]models.StockQuote, 0, strat.Cap)
	for _, q := range matched {
		if q == nil {
			continue
		}
		quotes = append(quotes, *q)
		if len(quotes) == strat.Cap {
			break
		}
	}

	result := &ScreenResult{
		Strategy:     strat.ID,
		StrategyName: strat.Name,
		Quotes:       quotes,
	}
	s.metrics.RecordScreenDuration(strategyID, time.Since(start).Seconds())
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
			s.l.Warn("screen cache write failed", applogger.Error(err))
		}
	}
	s.l.Info("strategy screen complete",
		applogger.String("strategy", strategyID),
		applogger.Int("universe", len(universe)),
		applogger.Int("matched", len(quotes)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return result, nil
}
