// Package eastmoney implements IndexProvider against the EastMoney push2
// quote API.
package eastmoney

import (
	"context"
	"fmt"
	"time"

	"StockSage/internal/domain/models"
	pkghttp "StockSage/pkg/http"
)

// secids for 上证指数, 深证成指, 创业板指.
const indexSecIDs = "1.000001,0.399001,0.399006"

type Client struct {
	baseURL string
	http    *pkghttp.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
	}
}

type ulistResponse struct {
	Data *struct {
		Diff []indexRow `json:"diff"`
	} `json:"data"`
}

// push2 field codes: f2 price, f3 change percent, f4 change, f5 volume,
// f6 turnover, f12 code, f14 name.
type indexRow struct {
	Price         float64 `json:"f2"`
	ChangePercent float64 `json:"f3"`
	Change        float64 `json:"f4"`
	Volume        int64   `json:"f5"`
	Turnover      float64 `json:"f6"`
	Code          string  `json:"f12"`
	Market        int     `json:"f13"`
	Name          string  `json:"f14"`
}

func (c *Client) Indices(ctx context.Context) ([]models.MarketIndex, error) {
	var payload ulistResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/api/qt/ulist.np/get",
		QueryParams: map[string][]string{
			"fltt":   {"2"},
			"secids": {indexSecIDs},
			"fields": {"f2,f3,f4,f5,f6,f12,f13,f14"},
		},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("eastmoney indices: %w", err)
	}
	if payload.Data == nil || len(payload.Data.Diff) == 0 {
		return nil, fmt.Errorf("eastmoney indices: empty response")
	}

	now := time.Now().UTC()
	out := make([]models.MarketIndex, 0, len(payload.Data.Diff))
	for _, row := range payload.Data.Diff {
		out = append(out, models.MarketIndex{
			Code:          prefixedCode(row.Market, row.Code),
			Name:          row.Name,
			Price:         row.Price,
			Change:        row.Change,
			ChangePercent: row.ChangePercent,
			Volume:        row.Volume,
			Turnover:      row.Turnover,
			DataSource:    "eastmoney",
			UpdateTime:    now,
		})
	}
	return out, nil
}

// prefixedCode disambiguates exchange-local codes: market 1 is Shanghai,
// 0 is Shenzhen.
func prefixedCode(market int, code string) string {
	if market == 1 {
		return "sh" + code
	}
	return "sz" + code
}
