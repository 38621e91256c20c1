package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"StockSage/internal/domain/models"
	domrepo "StockSage/internal/domain/repository"
	pkgch "StockSage/pkg/clickhouse"
	applogger "StockSage/pkg/logger"
)

// CHStockStore implements StockStore, AnalysisStore and IndexStore backed by
// ClickHouse. Reads over ReplacingMergeTree tables use FINAL so callers see
// upsert semantics regardless of merge progress.
type CHStockStore struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger
}

func NewCHStockStore(ch *pkgch.Client) *CHStockStore {
	return &CHStockStore{ch: ch, db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHStockStore) SetLogger(l *applogger.Logger) { s.l = l }

// Init applies the schema.
func (s *CHStockStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, Schema())
}

func (s *CHStockStore) UpsertStock(ctx context.Context, st *models.Stock) error {
	const q = `INSERT INTO stock_info
        (ticker, name, market, industry, sector, data_source, is_test_data, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		st.Ticker, st.Name, st.Market, st.Industry, st.Sector,
		st.DataSource, boolToUInt8(st.IsTestData), st.CreatedAt, st.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert stock %s: %w", st.Ticker, err)
	}
	return nil
}

func (s *CHStockStore) GetStock(ctx context.Context, ticker string) (*models.Stock, error) {
	const q = `SELECT ticker, name, market, industry, sector, data_source, is_test_data, created_at, updated_at
        FROM stock_info FINAL WHERE ticker = ?`
	var st models.Stock
	var isTest uint8
	err := s.db.QueryRowContext(ctx, q, ticker).Scan(
		&st.Ticker, &st.Name, &st.Market, &st.Industry, &st.Sector,
		&st.DataSource, &isTest, &st.CreatedAt, &st.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domrepo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stock %s: %w", ticker, err)
	}
	st.IsTestData = isTest != 0
	return &st, nil
}

func (s *CHStockStore) ListStocks(ctx context.Context, limit int, includeTestData bool) ([]models.Stock, error) {
	q := `SELECT ticker, name, market, industry, sector, data_source, is_test_data, created_at, updated_at
        FROM stock_info FINAL`
	if !includeTestData {
		q += ` WHERE is_test_data = 0`
	}
	q += ` ORDER BY ticker LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()

	out := make([]models.Stock, 0, limit)
	for rows.Next() {
		var st models.Stock
		var isTest uint8
		if err := rows.Scan(&st.Ticker, &st.Name, &st.Market, &st.Industry, &st.Sector,
			&st.DataSource, &isTest, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		st.IsTestData = isTest != 0
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *CHStockStore) UpsertBars(ctx context.Context, bars []models.DailyBar) error {
	if len(bars) == 0 {
		return nil
	}
	start := time.Now()
	// Multi-row VALUES insert, chunked to bound statement size.
	const chunkSize = 1000
	for lo := 0; lo < len(bars); lo += chunkSize {
		hi := lo + chunkSize
		if hi > len(bars) {
			hi = len(bars)
		}
		values := make([]string, 0, hi-lo)
		args := make([]interface{}, 0, (hi-lo)*13)
		for _, b := range bars[lo:hi] {
			if b.Ticker == "" || b.TradeDate == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				b.Ticker, b.TradeDate, b.Open, b.High, b.Low, b.Close,
				b.Volume, b.Turnover, b.PERatio, b.PBRatio, b.MarketCap,
				boolToUInt8(b.IsTestData), b.CreatedAt,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := `INSERT INTO stock_daily
            (ticker, trade_date, open_price, high_price, low_price, close_price,
             volume, turnover, pe_ratio, pb_ratio, market_cap, is_test_data, created_at)
            VALUES ` + strings.Join(values, ",")
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("upsert bars: %w", err)
		}
	}
	if s.l != nil {
		s.l.Debug("clickhouse upsert_bars ok",
			applogger.Int("rows", len(bars)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHStockStore) LatestBars(ctx context.Context, ticker string, n int) ([]models.DailyBar, error) {
	const q = `SELECT ticker, trade_date, open_price, high_price, low_price, close_price,
        volume, turnover, pe_ratio, pb_ratio, market_cap, is_test_data, created_at
        FROM stock_daily FINAL
        WHERE ticker = ?
        ORDER BY trade_date DESC
        LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, ticker, n)
	if err != nil {
		return nil, fmt.Errorf("latest bars %s: %w", ticker, err)
	}
	defer rows.Close()

	out := make([]models.DailyBar, 0, n)
	for rows.Next() {
		var b models.DailyBar
		var isTest uint8
		if err := rows.Scan(&b.Ticker, &b.TradeDate, &b.Open, &b.High, &b.Low, &b.Close,
			&b.Volume, &b.Turnover, &b.PERatio, &b.PBRatio, &b.MarketCap, &isTest, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.IsTestData = isTest != 0
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *CHStockStore) RankedQuotes(ctx context.Context, rank domrepo.RankBy, ascending bool, limit int) ([]models.StockQuote, error) {
	col, err := rankColumn(rank)
	if err != nil {
		return nil, err
	}
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	q := fmt.Sprintf(`
        SELECT d.ticker, s.name, s.market, s.industry,
               d.close_price, d.change_percent, d.volume, d.turnover,
               d.market_cap, d.pe_ratio, d.pb_ratio, d.is_test_data,
               s.data_source, d.trade_date
        FROM (
            SELECT ticker,
                   argMax(open_price, trade_date)  AS open_price,
                   argMax(close_price, trade_date) AS close_price,
                   if(argMax(open_price, trade_date) > 0,
                      (argMax(close_price, trade_date) - argMax(open_price, trade_date))
                          / argMax(open_price, trade_date) * 100, 0) AS change_percent,
                   argMax(volume, trade_date)       AS volume,
                   argMax(turnover, trade_date)     AS turnover,
                   argMax(market_cap, trade_date)   AS market_cap,
                   argMax(pe_ratio, trade_date)     AS pe_ratio,
                   argMax(pb_ratio, trade_date)     AS pb_ratio,
                   max(is_test_data)                AS is_test_data,
                   max(trade_date)                  AS trade_date
            FROM stock_daily FINAL
            GROUP BY ticker
        ) AS d
        ANY LEFT JOIN stock_info AS s USING (ticker)
        ORDER BY %s %s
        LIMIT ?`, col, dir)
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("ranked quotes: %w", err)
	}
	defer rows.Close()

	out := make([]models.StockQuote, 0, limit)
	for rows.Next() {
		var sq models.StockQuote
		var isTest uint8
		if err := rows.Scan(&sq.Ticker, &sq.Name, &sq.Market, &sq.Industry,
			&sq.Price, &sq.ChangePercent, &sq.Volume, &sq.Turnover,
			&sq.MarketCap, &sq.PERatio, &sq.PBRatio, &isTest,
			&sq.DataSource, &sq.TradeDate); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		sq.IsTestData = isTest != 0
		out = append(out, sq)
	}
	return out, rows.Err()
}

func (s *CHStockStore) InsertAnalysis(ctx context.Context, a *models.Analysis) error {
	const q = `INSERT INTO ai_analyses
        (user_id, ticker, analysis_type, recommendation, confidence_score,
         overall_score, risk_level, analysis_text, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var score interface{}
	if a.OverallScore != nil {
		score = int32(*a.OverallScore)
	}
	_, err := s.db.ExecContext(ctx, q,
		a.UserID, a.Ticker, a.AnalysisType, string(a.Recommendation),
		a.ConfidenceScore, score, string(a.RiskLevel), a.AnalysisText, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (s *CHStockStore) CountAnalyses(ctx context.Context, userID string, from, to time.Time) (int, error) {
	const q = `SELECT count() FROM ai_analyses
        WHERE user_id = ? AND created_at >= ? AND created_at < ?`
	var n uint64
	if err := s.db.QueryRowContext(ctx, q, userID, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("count analyses: %w", err)
	}
	return int(n), nil
}

func (s *CHStockStore) UpsertIndices(ctx context.Context, indices []models.MarketIndex) error {
	if len(indices) == 0 {
		return nil
	}
	values := make([]string, 0, len(indices))
	args := make([]interface{}, 0, len(indices)*10)
	for _, idx := range indices {
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			idx.Code, idx.Name, idx.Price, idx.Change, idx.ChangePercent,
			idx.Volume, idx.Turnover, boolToUInt8(idx.IsTestData),
			idx.DataSource, idx.UpdateTime,
		)
	}
	q := `INSERT INTO market_indices
        (code, name, price, change, change_percent, volume, turnover, is_test_data, data_source, update_time)
        VALUES ` + strings.Join(values, ",")
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("upsert indices: %w", err)
	}
	return nil
}

func (s *CHStockStore) ListIndices(ctx context.Context, includeTestData bool) ([]models.MarketIndex, error) {
	q := `SELECT code, name, price, change, change_percent, volume, turnover, is_test_data, data_source, update_time
        FROM market_indices FINAL`
	if !includeTestData {
		q += ` WHERE is_test_data = 0`
	}
	q += ` ORDER BY code`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list indices: %w", err)
	}
	defer rows.Close()

	var out []models.MarketIndex
	for rows.Next() {
		var idx models.MarketIndex
		var isTest uint8
		if err := rows.Scan(&idx.Code, &idx.Name, &idx.Price, &idx.Change, &idx.ChangePercent,
			&idx.Volume, &idx.Turnover, &isTest, &idx.DataSource, &idx.UpdateTime); err != nil {
			return nil, fmt.Errorf("scan index: %w", err)
		}
		idx.IsTestData = isTest != 0
		out = append(out, idx)
	}
	return out, rows.Err()
}

func (s *CHStockStore) Health(ctx context.Context) error { return s.ch.Health(ctx) }

func (s *CHStockStore) Close() error { return s.ch.Close() }

func rankColumn(rank domrepo.RankBy) (string, error) {
	switch rank {
	case domrepo.RankByChangePercent:
		return "change_percent", nil
	case domrepo.RankByVolume:
		return "volume", nil
	default:
		return "", fmt.Errorf("unsupported rank column: %s", rank)
	}
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
