package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"StockSage/internal/domain/models"
)

var (
	bullishTerms = []string{"买入", "上涨", "看好", "推荐", "积极"}
	bearishTerms = []string{"卖出", "下跌", "风险", "谨慎", "回调"}

	confidenceRe    = regexp.MustCompile(`置信度[：:]\s*(\d+)`)
	confidenceAltRe = regexp.MustCompile(`(\d+)分`)
	overallScoreRe  = regexp.MustCompile(`综合评分[：:]\s*(\d+)`)
	overallScoreAlt = regexp.MustCompile(`评分[：:]\s*(\d+)`)
)

// Result is the structured reading of one model response.
type Result struct {
	Recommendation models.Recommendation
	Confidence     float64
	OverallScore   *int
	RiskLevel      models.RiskLevel
}

// Parser extracts a structured Result from free-form model text.
type Parser struct {
	scorer Scorer
}

func NewParser(scorer Scorer) *Parser {
	if scorer == nil {
		scorer = LexiconScorer{}
	}
	return &Parser{scorer: scorer}
}

// Parse derives recommendation, confidence, overall score and risk tier
// from the model text. Confidence defaults to 0.7 when the text carries no
// explicit score, and is clamped to [0, 1].
func (p *Parser) Parse(text string) Result {
	confidence := clamp01(p.scorer.Confidence(text))
	return Result{
		Recommendation: Recommend(text),
		Confidence:     confidence,
		OverallScore:   extractOverallScore(text),
		RiskLevel:      models.RiskLevelFor(confidence),
	}
}

// Recommend counts bullish versus bearish lexicon hits. Ties keep HOLD.
func Recommend(text string) models.Recommendation {
	lower := strings.ToLower(text)
	bullish := countTerms(lower, bullishTerms)
	bearish := countTerms(lower, bearishTerms)
	switch {
	case bullish > bearish:
		return models.RecommendBuy
	case bearish > bullish:
		return models.RecommendSell
	default:
		return models.RecommendHold
	}
}

func countTerms(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}

// ExtractConfidence reads an explicit confidence from the text, on the
// 1-10 scale the prompt asks for, normalized to [0, 1]. Returns 0.7 when
// nothing matches.
func ExtractConfidence(text string) float64 {
	m := confidenceRe.FindStringSubmatch(text)
	if m == nil {
		m = confidenceAltRe.FindStringSubmatch(text)
	}
	if m == nil {
		return 0.7
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0.7
	}
	return clamp01(float64(n) / 10)
}

func extractOverallScore(text string) *int {
	m := overallScoreRe.FindStringSubmatch(text)
	if m == nil {
		m = overallScoreAlt.FindStringSubmatch(text)
	}
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
