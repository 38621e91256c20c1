package analysis

import "math/rand"

// Scorer derives a confidence score from model text.
type Scorer interface {
	Confidence(text string) float64
}

// LexiconScorer reads the confidence the model states in its own output.
// Deterministic; this is the scorer wired in production.
type LexiconScorer struct{}

func (LexiconScorer) Confidence(text string) float64 {
	return ExtractConfidence(text)
}

// RandomScorer samples a confidence in [0.6, 0.95] regardless of content.
//
// Deprecated: kept for comparison runs only. It makes risk tiers
// non-reproducible; use LexiconScorer.
type RandomScorer struct{}

func (RandomScorer) Confidence(string) float64 {
	c := 0.8 + rand.Float64()*0.15
	if c > 0.95 {
		c = 0.95
	}
	if c < 0.6 {
		c = 0.6
	}
	return c
}
