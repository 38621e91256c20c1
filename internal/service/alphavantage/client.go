// Package alphavantage implements MarketDataProvider against the Alpha
// Vantage REST API (OVERVIEW and TIME_SERIES_DAILY functions).
package alphavantage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	domservice "StockSage/internal/domain/service"
	"StockSage/internal/service/ratelimit"
	pkghttp "StockSage/pkg/http"
	applogger "StockSage/pkg/logger"
)

const limitKey = "alphavantage"

type Client struct {
	apiKey    string
	baseURL   string
	perMinute float64
	http      *pkghttp.Client
	limiter   *ratelimit.Limiter
	l         *applogger.Logger
}

func New(apiKey, baseURL string, timeout time.Duration, requestsPerMinute float64, limiter *ratelimit.Limiter) *Client {
	return &Client{
		apiKey:    apiKey,
		baseURL:   baseURL,
		perMinute: requestsPerMinute,
		http:      pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		limiter:   limiter,
	}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

type overviewPayload struct {
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	Industry             string `json:"Industry"`
	Sector               string `json:"Sector"`
	Exchange             string `json:"Exchange"`
	Description          string `json:"Description"`
	PERatio              string `json:"PERatio"`
	PriceToBookRatio     string `json:"PriceToBookRatio"`
	MarketCapitalization string `json:"MarketCapitalization"`
	Note                 string `json:"Note"`
	Information          string `json:"Information"`
	ErrorMessage         string `json:"Error Message"`
}

func (c *Client) Overview(ctx context.Context, ticker string) (*domservice.Overview, error) {
	var payload overviewPayload
	if err := c.query(ctx, "OVERVIEW", ticker, &payload); err != nil {
		return nil, err
	}
	if err := payloadError(payload.Note, payload.Information, payload.ErrorMessage); err != nil {
		return nil, fmt.Errorf("alphavantage overview %s: %w", ticker, err)
	}
	if payload.Symbol == "" && payload.Name == "" {
		return nil, fmt.Errorf("alphavantage overview %s: empty payload", ticker)
	}
	return &domservice.Overview{
		Ticker:      ticker,
		Name:        payload.Name,
		Industry:    payload.Industry,
		Sector:      payload.Sector,
		Exchange:    payload.Exchange,
		Description: payload.Description,
		PERatio:     parseNum(payload.PERatio),
		PBRatio:     parseNum(payload.PriceToBookRatio),
		MarketCap:   parseNum(payload.MarketCapitalization),
	}, nil
}

type dailyPayload struct {
	Series       map[string]dailyEntry `json:"Time Series (Daily)"`
	Note         string                `json:"Note"`
	Information  string                `json:"Information"`
	ErrorMessage string                `json:"Error Message"`
}

type dailyEntry struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

func (c *Client) DailySeries(ctx context.Context, ticker string) ([]domservice.DailyRecord, error) {
	var payload dailyPayload
	if err := c.query(ctx, "TIME_SERIES_DAILY", ticker, &payload); err != nil {
		return nil, err
	}
	if err := payloadError(payload.Note, payload.Information, payload.ErrorMessage); err != nil {
		return nil, fmt.Errorf("alphavantage daily %s: %w", ticker, err)
	}
	if len(payload.Series) == 0 {
		return nil, fmt.Errorf("alphavantage daily %s: empty series", ticker)
	}

	out := make([]domservice.DailyRecord, 0, len(payload.Series))
	for date, e := range payload.Series {
		vol, _ := strconv.ParseInt(e.Volume, 10, 64)
		out = append(out, domservice.DailyRecord{
			Date:   date,
			Open:   parseNum(e.Open),
			High:   parseNum(e.High),
			Low:    parseNum(e.Low),
			Close:  parseNum(e.Close),
			Volume: vol,
		})
	}
	// most recent first
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if c.l != nil {
		c.l.Debug("alphavantage daily series fetched",
			applogger.String("ticker", ticker),
			applogger.Int("records", len(out)),
		)
	}
	return out, nil
}

func (c *Client) query(ctx context.Context, function, ticker string, dest interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, limitKey, c.perMinute, c.perMinute/60); err != nil {
			return fmt.Errorf("alphavantage throttle: %w", err)
		}
	}
	return c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/query",
		QueryParams: map[string][]string{
			"function": {function},
			"symbol":   {ticker},
			"apikey":   {c.apiKey},
		},
	}, dest)
}

// payloadError maps Alpha Vantage's in-band error fields. The API returns
// HTTP 200 with a Note on rate limiting and an Error Message on bad symbols.
func payloadError(note, info, errMsg string) error {
	switch {
	case errMsg != "":
		return fmt.Errorf("provider error: %s", errMsg)
	case note != "":
		return fmt.Errorf("rate limited: %s", note)
	case info != "":
		return fmt.Errorf("provider notice: %s", info)
	}
	return nil
}

// parseNum tolerates the API's "None" and "-" placeholders, mapping them to 0.
func parseNum(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
