package usecase

import (
	"context"
	"errors"
	"time"

	"StockSage/internal/domain/models"
	domrepo "StockSage/internal/domain/repository"
	domservice "StockSage/internal/domain/service"
	"StockSage/pkg/cache"
	applogger "StockSage/pkg/logger"
)

const indexCacheKey = "market:indices"

// StockList is the list endpoint payload with test-data bookkeeping.
type StockList struct {
	Stocks        []models.StockQuote `json:"stocks"`
	Total         int                 `json:"total"`
	TestDataCount int                 `json:"test_data_count"`
}

// QueryService serves read-only market surfaces: stock lists, rankings and
// index snapshots.
type QueryService struct {
	store         domrepo.StockStore
	indexStore    domrepo.IndexStore
	indexProvider domservice.IndexProvider
	cache         cache.Service
	l             *applogger.Logger
	indexTTL      time.Duration
}

func NewQueryService(
	store domrepo.StockStore,
	indexStore domrepo.IndexStore,
	indexProvider domservice.IndexProvider,
	cacheSvc cache.Service,
	l *applogger.Logger,
	indexTTL time.Duration,
) *QueryService {
	return &QueryService{
		store:         store,
		indexStore:    indexStore,
		indexProvider: indexProvider,
		cache:         cacheSvc,
		l:             l,
		indexTTL:      indexTTL,
	}
}

// ListStocks returns latest-bar quotes for up to limit instruments.
func (s *QueryService) ListStocks(ctx context.Context, req *models.StockListRequest) (*StockList, error) {
	quotes, err := s.store.RankedQuotes(ctx, domrepo.RankByVolume, false, req.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.StockQuote, 0, len(quotes))
	testData := 0
	for _, q := range quotes {
		if q.IsTestData {
			testData++
			if !req.IncludeTestData {
				continue
			}
		}
		out = append(out, q)
	}
	return &StockList{Stocks: out, Total: len(out), TestDataCount: testData}, nil
}

// Rankings maps the ranking actions onto ordered latest-bar projections.
func (s *QueryService) Rankings(ctx context.Context, req *models.MarketRankingRequest) ([]models.StockQuote, error) {
	switch req.Action {
	case "gainers":
		return s.store.RankedQuotes(ctx, domrepo.RankByChangePercent, false, req.Limit)
	case "losers":
		return s.store.RankedQuotes(ctx, domrepo.RankByChangePercent, true, req.Limit)
	case "volume":
		return s.store.RankedQuotes(ctx, domrepo.RankByVolume, false, req.Limit)
	default:
		return nil, errors.New("unsupported ranking action: " + req.Action)
	}
}

// Indices returns market index snapshots, preferring the cache, then the
// store, then a live provider fetch that also backfills the store.
func (s *QueryService) Indices(ctx context.Context, req *models.MarketIndicesRequest) ([]models.MarketIndex, error) {
	if s.cache != nil && !req.IncludeTestData {
		var cached []models.MarketIndex
		if err := s.cache.Get(ctx, indexCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.l.Warn("index cache read failed", applogger.Error(err))
		}
	}

	indices, err := s.indexStore.ListIndices(ctx, req.IncludeTestData)
	if err != nil {
		return nil, err
	}
	if len(indices) == 0 && s.indexProvider != nil {
		indices, err = s.refreshIndices(ctx)
		if err != nil {
			return nil, err
		}
	}

	if s.cache != nil && !req.IncludeTestData {
		if err := s.cache.Set(ctx, indexCacheKey, indices, s.indexTTL); err != nil {
			s.l.Warn("index cache write failed", applogger.Error(err))
		}
	}
	return indices, nil
}

func (s *QueryService) refreshIndices(ctx context.Context) ([]models.MarketIndex, error) {
	indices, err := s.indexProvider.Indices(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.indexStore.UpsertIndices(ctx, indices); err != nil {
		s.l.Warn("index store write failed", applogger.Error(err))
	}
	return indices, nil
}
