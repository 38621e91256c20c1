package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"StockSage/internal/domain/models"
	domrepo "StockSage/internal/domain/repository"
)

// MemoryStore is the in-process storage backend. Selected with
// storage.type=memory; also serves as the store fake in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	stocks   map[string]models.Stock
	bars     map[string]map[string]models.DailyBar // ticker -> trade_date -> bar
	analyses []models.Analysis
	indices  map[string]models.MarketIndex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stocks:  make(map[string]models.Stock),
		bars:    make(map[string]map[string]models.DailyBar),
		indices: make(map[string]models.MarketIndex),
	}
}

func (m *MemoryStore) UpsertStock(_ context.Context, s *models.Stock) error {
	m.mu.Lock()
	m.stocks[s.Ticker] = *s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetStock(_ context.Context, ticker string) (*models.Stock, error) {
	m.mu.RLock()
	s, ok := m.stocks[ticker]
	m.mu.RUnlock()
	if !ok {
		return nil, domrepo.ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) ListStocks(_ context.Context, limit int, includeTestData bool) ([]models.Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Stock, 0, len(m.stocks))
	for _, s := range m.stocks {
		if !includeTestData && s.IsTestData {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) UpsertBars(_ context.Context, bars []models.DailyBar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range bars {
		if b.Ticker == "" || b.TradeDate == "" {
			continue
		}
		byDate, ok := m.bars[b.Ticker]
		if !ok {
			byDate = make(map[string]models.DailyBar)
			m.bars[b.Ticker] = byDate
		}
		byDate[b.TradeDate] = b
	}
	return nil
}

func (m *MemoryStore) LatestBars(_ context.Context, ticker string, n int) ([]models.DailyBar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byDate := m.bars[ticker]
	out := make([]models.DailyBar, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, b)
	}
	// ISO dates sort lexically
	sort.Slice(out, func(i, j int) bool { return out[i].TradeDate > out[j].TradeDate })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *MemoryStore) RankedQuotes(_ context.Context, rank domrepo.RankBy, ascending bool, limit int) ([]models.StockQuote, error) {
	m.mu.RLock()
	quotes := make([]models.StockQuote, 0, len(m.bars))
	for ticker, byDate := range m.bars {
		latest, ok := latestBar(byDate)
		if !ok {
			continue
		}
		q := models.StockQuote{
			Ticker:     ticker,
			Price:      latest.Close,
			Volume:     latest.Volume,
			Turnover:   latest.Turnover,
			MarketCap:  latest.MarketCap,
			PERatio:    latest.PERatio,
			PBRatio:    latest.PBRatio,
			IsTestData: latest.IsTestData,
			TradeDate:  latest.TradeDate,
		}
		if latest.Open > 0 {
			q.ChangePercent = (latest.Close - latest.Open) / latest.Open * 100
		}
		if s, ok := m.stocks[ticker]; ok {
			q.Name = s.Name
			q.Market = s.Market
			q.Industry = s.Industry
			q.DataSource = s.DataSource
		}
		quotes = append(quotes, q)
	}
	m.mu.RUnlock()

	less := func(i, j int) bool {
		var a, b float64
		switch rank {
		case domrepo.RankByVolume:
			a, b = float64(quotes[i].Volume), float64(quotes[j].Volume)
		default:
			a, b = quotes[i].ChangePercent, quotes[j].ChangePercent
		}
		if ascending {
			return a < b
		}
		return a > b
	}
	sort.SliceStable(quotes, less)
	if limit > 0 && len(quotes) > limit {
		quotes = quotes[:limit]
	}
	return quotes, nil
}

func (m *MemoryStore) InsertAnalysis(_ context.Context, a *models.Analysis) error {
	m.mu.Lock()
	m.analyses = append(m.analyses, *a)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) CountAnalyses(_ context.Context, userID string, from, to time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, a := range m.analyses {
		if a.UserID != userID {
			continue
		}
		if !a.CreatedAt.Before(from) && a.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) UpsertIndices(_ context.Context, indices []models.MarketIndex) error {
	m.mu.Lock()
	for _, idx := range indices {
		m.indices[idx.Code] = idx
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) ListIndices(_ context.Context, includeTestData bool) ([]models.MarketIndex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.MarketIndex, 0, len(m.indices))
	for _, idx := range m.indices {
		if !includeTestData && idx.IsTestData {
			continue
		}
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *MemoryStore) Health(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

func latestBar(byDate map[string]models.DailyBar) (models.DailyBar, bool) {
	var latest models.DailyBar
	found := false
	for _, b := range byDate {
		if !found || b.TradeDate > latest.TradeDate {
			latest = b
			found = true
		}
	}
	return latest, found
}
