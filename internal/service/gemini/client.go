// Package gemini implements TextGenerator against the Google generative
// language generateContent endpoint.
package gemini

import (
	"context"
	"fmt"
	"time"

	pkghttp "StockSage/pkg/http"
	applogger "StockSage/pkg/logger"
)

type Client struct {
	apiKey          string
	baseURL         string
	model           string
	temperature     float64
	maxOutputTokens int
	http            *pkghttp.Client
	l               *applogger.Logger
}

type Option func(*Client)

func WithGeneration(temperature float64, maxOutputTokens int) Option {
	return func(c *Client) {
		c.temperature = temperature
		c.maxOutputTokens = maxOutputTokens
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.l = l }
}

func New(apiKey, baseURL, model string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		apiKey:          apiKey,
		baseURL:         baseURL,
		model:           model,
		temperature:     0.7,
		maxOutputTokens: 2048,
		http:            pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends prompt to the model and returns candidates[0].content.
// parts[0].text. A structurally valid but empty response is an error so
// callers never parse an empty analysis.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     c.temperature,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: c.maxOutputTokens,
		},
	}

	var resp generateResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodPost,
		URL:         url,
		QueryParams: map[string][]string{"key": {c.apiKey}},
		Headers:     map[string]string{"Content-Type": "application/json"},
		Body:        req,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("gemini generate: %s (code %d)", resp.Error.Message, resp.Error.Code)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 ||
		resp.Candidates[0].Content.Parts[0].Text == "" {
		return "", fmt.Errorf("gemini generate: empty candidates")
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	if c.l != nil {
		c.l.Debug("gemini generate ok",
			applogger.String("model", c.model),
			applogger.Int("chars", len(text)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return text, nil
}
