package models

import "time"

// Stock holds per-instrument metadata and the latest fundamentals snapshot.
// Mutated on every sync; never deleted.
type Stock struct {
	Ticker     string    `json:"ticker"`
	Name       string    `json:"name"`
	Market     string    `json:"market"`
	Industry   string    `json:"industry"`
	Sector     string    `json:"sector"`
	DataSource string    `json:"data_source"`
	IsTestData bool      `json:"is_test_data"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DailyBar is one trading day's OHLCV for a ticker, stamped with the
// fundamentals snapshot that was current at ingestion time. Unique per
// (Ticker, TradeDate); re-ingestion overwrites.
type DailyBar struct {
	Ticker     string    `json:"ticker"`
	TradeDate  string    `json:"trade_date"` // YYYY-MM-DD
	Open       float64   `json:"open_price"`
	High       float64   `json:"high_price"`
	Low        float64   `json:"low_price"`
	Close      float64   `json:"close_price"`
	Volume     int64     `json:"volume"`
	Turnover   float64   `json:"turnover"`
	PERatio    float64   `json:"pe_ratio"`
	PBRatio    float64   `json:"pb_ratio"`
	MarketCap  float64   `json:"market_cap"`
	IsTestData bool      `json:"is_test_data"`
	CreatedAt  time.Time `json:"created_at"`
}

// MarketIndex is one index snapshot (上证, 深证, 创业板, ...).
type MarketIndex struct {
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Volume        int64     `json:"volume"`
	Turnover      float64   `json:"turnover"`
	IsTestData    bool      `json:"isTestData"`
	DataSource    string    `json:"dataSource"`
	UpdateTime    time.Time `json:"updateTime"`
}

// StockQuote is the stock + latest-bar projection served by list and
// screening endpoints.
type StockQuote struct {
	Ticker        string  `json:"ticker"`
	Name          string  `json:"name"`
	Market        string  `json:"market"`
	Industry      string  `json:"industry"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	Turnover      float64 `json:"turnover"`
	MarketCap     float64 `json:"marketCap"`
	PERatio       float64 `json:"peRatio"`
	PBRatio       float64 `json:"pbRatio"`
	IsTestData    bool    `json:"isTestData"`
	DataSource    string  `json:"dataSource"`
	TradeDate     string  `json:"tradeDate"`
}
