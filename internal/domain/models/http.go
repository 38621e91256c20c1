package models

// Requests and response payloads for the HTTP endpoints. Defined in domain
// for consistency and reuse.

type StockListRequest struct {
	Limit           int  `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=200"`
	IncludeTestData bool `query:"includeTestData" json:"includeTestData"`
}

type MarketIndicesRequest struct {
	IncludeTestData bool `query:"includeTestData" json:"includeTestData"`
}

type MarketRankingRequest struct {
	Action string `query:"action" json:"action" validate:"required,oneof=gainers losers volume"`
	Limit  int    `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=100"`
}

type ScreenRequest struct {
	Strategy string `query:"strategy" json:"strategy" validate:"required"`
}

type StockDataRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required"`
	Period string `query:"period" json:"period" default:"1M" validate:"oneof=1D 1W 1M 3M 1Y"`
	Force  bool   `query:"force" json:"force"`
}

// AnalyzeRequest drives the full analysis pipeline (store-backed, quota-checked).
type AnalyzeRequest struct {
	Ticker       string `json:"ticker" validate:"required"`
	UserID       string `json:"user_id" validate:"required"`
	AnalysisType string `json:"analysis_type" default:"comprehensive"`
}

// QuickAnalyzeRequest carries caller-supplied market data; no store access,
// no quota.
type QuickAnalyzeRequest struct {
	Ticker       string            `json:"ticker" validate:"required"`
	StockName    string            `json:"stockName"`
	CurrentPrice float64           `json:"currentPrice" validate:"required,gt=0"`
	PriceHistory []QuickPricePoint `json:"priceHistory" validate:"dive"`
	Volume       int64             `json:"volume"`
	MarketCap    float64           `json:"marketCap"`
	PERatio      float64           `json:"peRatio"`
	AnalysisType string            `json:"analysisType" default:"comprehensive"`
}

type QuickPricePoint struct {
	Price  float64 `json:"price" validate:"required"`
	Change string  `json:"change"`
}

// StockDataResponse is the sync endpoint payload.
type StockDataResponse struct {
	StockInfo   *Stock      `json:"stock_info"`
	StockData   []DailyBar  `json:"stock_data"`
	Indicators  *Indicators `json:"technical_indicators"`
	Period      string      `json:"period"`
	LastUpdated string      `json:"last_updated"`
}

// AnalyzeResponse is the full-pipeline analysis payload.
type AnalyzeResponse struct {
	Ticker            string         `json:"ticker"`
	AnalysisType      string         `json:"analysis_type"`
	Recommendation    Recommendation `json:"recommendation"`
	ConfidenceScore   float64        `json:"confidence_score"`
	OverallScore      *int           `json:"overall_score,omitempty"`
	RiskLevel         RiskLevel      `json:"risk_level"`
	AnalysisText      string         `json:"analysis_text"`
	RemainingAnalyses int            `json:"remaining_analyses"`
	CreatedAt         string         `json:"created_at"`
}

// QuickAnalyzeResponse is the quick-variant payload.
type QuickAnalyzeResponse struct {
	Ticker          string         `json:"ticker"`
	AnalysisType    string         `json:"analysis_type"`
	Recommendation  Recommendation `json:"recommendation"`
	ConfidenceScore float64        `json:"confidence_score"`
	OverallScore    *int           `json:"overall_score,omitempty"`
	AnalysisText    string         `json:"analysis_text"`
	Timestamp       string         `json:"timestamp"`
}
