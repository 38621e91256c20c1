package analysis

import (
	"testing"

	"StockSage/internal/domain/models"
)

func TestRecommendBullish(t *testing.T) {
	got := Recommend("技术面向好，建议买入，后市有望上涨，我们看好该股")
	if got != models.RecommendBuy {
		t.Fatalf("Recommend = %s, want BUY", got)
	}
}

func TestRecommendBearish(t *testing.T) {
	got := Recommend("短期存在回调风险，建议谨慎操作，必要时卖出")
	if got != models.RecommendSell {
		t.Fatalf("Recommend = %s, want SELL", got)
	}
}

func TestRecommendTieIsHold(t *testing.T) {
	// one bullish term, one bearish term
	got := Recommend("可以买入但注意风险")
	if got != models.RecommendHold {
		t.Fatalf("Recommend = %s, want HOLD on tie", got)
	}
	if got := Recommend("横盘整理，无明显信号"); got != models.RecommendHold {
		t.Fatalf("Recommend = %s, want HOLD with no lexicon hits", got)
	}
}

func TestExtractConfidence(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"置信度：8，主要基于估值", 0.8},
		{"置信度: 9", 0.9},
		{"综合来看给出7分", 0.7},
		{"没有任何评分信息", 0.7}, // default
		{"置信度：15", 1.0},     // clamped
	}
	for _, tc := range cases {
		if got := ExtractConfidence(tc.text); got != tc.want {
			t.Errorf("ExtractConfidence(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestParseOverallScore(t *testing.T) {
	p := NewParser(nil)
	r := p.Parse("分析完毕。综合评分：8")
	if r.OverallScore == nil || *r.OverallScore != 8 {
		t.Fatalf("OverallScore = %v, want 8", r.OverallScore)
	}
	r = p.Parse("没有给出结论")
	if r.OverallScore != nil {
		t.Fatalf("OverallScore = %v, want nil", *r.OverallScore)
	}
}

func TestParseRiskTiers(t *testing.T) {
	p := NewParser(nil)
	cases := []struct {
		text string
		want models.RiskLevel
	}{
		{"置信度：9", models.RiskLow},      // 0.9 > 0.8
		{"置信度：7", models.RiskModerate}, // 0.7 > 0.6
		{"置信度：5", models.RiskHigh},
	}
	for _, tc := range cases {
		if got := p.Parse(tc.text).RiskLevel; got != tc.want {
			t.Errorf("Parse(%q).RiskLevel = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestParseDefaultsToLexiconScorer(t *testing.T) {
	p := NewParser(nil)
	r := p.Parse("建议买入，置信度：8")
	if r.Recommendation != models.RecommendBuy {
		t.Errorf("Recommendation = %s, want BUY", r.Recommendation)
	}
	if r.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", r.Confidence)
	}
	if r.RiskLevel != models.RiskModerate {
		t.Errorf("RiskLevel = %s, want MODERATE for 0.8", r.RiskLevel)
	}
}
