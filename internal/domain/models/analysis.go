package models

import "time"

// Recommendation is the structured verdict derived from model output.
type Recommendation string

const (
	RecommendBuy  Recommendation = "BUY"
	RecommendHold Recommendation = "HOLD"
	RecommendSell Recommendation = "SELL"
)

// RiskLevel buckets confidence into a risk tier.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// RiskLevelFor maps a confidence score to its risk tier:
// >0.8 LOW, >0.6 MODERATE, else HIGH.
func RiskLevelFor(confidence float64) RiskLevel {
	switch {
	case confidence > 0.8:
		return RiskLow
	case confidence > 0.6:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// Indicators is the derived technical indicator set for a bar window.
// Never persisted; recomputed per request. SMA20 is nil when fewer than
// 20 bars exist.
type Indicators struct {
	SMA5               float64  `json:"sma5"`
	SMA20              *float64 `json:"sma20,omitempty"`
	PriceChange        float64  `json:"price_change"`
	PriceChangePercent float64  `json:"price_change_percent"`
	Volatility         float64  `json:"volatility"`
}

// Empty reports whether no indicators could be computed.
func (i *Indicators) Empty() bool {
	return i == nil || (i.SMA5 == 0 && i.SMA20 == nil && i.PriceChange == 0 &&
		i.PriceChangePercent == 0 && i.Volatility == 0)
}

// Analysis is one stored AI analysis. Immutable once written; keyed by
// (UserID, Ticker, CreatedAt).
type Analysis struct {
	UserID          string         `json:"user_id"`
	Ticker          string         `json:"ticker"`
	AnalysisType    string         `json:"analysis_type"`
	Recommendation  Recommendation `json:"recommendation"`
	ConfidenceScore float64        `json:"confidence_score"`
	OverallScore    *int           `json:"overall_score,omitempty"`
	RiskLevel       RiskLevel      `json:"risk_level"`
	AnalysisText    string         `json:"analysis_text"`
	CreatedAt       time.Time      `json:"created_at"`
}

// PricePoint is one observation of the recent price history embedded in
// analysis prompts.
type PricePoint struct {
	Date   string  `json:"date"`
	Price  float64 `json:"price"`
	Volume int64   `json:"volume,omitempty"`
	Change string  `json:"change"`
}
