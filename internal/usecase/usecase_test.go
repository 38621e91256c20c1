package usecase

import (
	"context"
	"errors"
	"testing"

	"StockSage/internal/domain/models"
	domservice "StockSage/internal/domain/service"
	applogger "StockSage/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatal(err)
	}
	return l
}

type nopMetrics struct{}

func (nopMetrics) RecordProviderFetch(string, string)   {}
func (nopMetrics) RecordModelInvocation(string)         {}
func (nopMetrics) RecordScreenDuration(string, float64) {}
func (nopMetrics) RecordQuotaRejection()                {}
func (nopMetrics) RecordLastPrice(string, float64)      {}

type stubProvider struct {
	overview *domservice.Overview
	series   []domservice.DailyRecord
	err      error
	calls    int
}

func (p *stubProvider) Overview(context.Context, string) (*domservice.Overview, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.overview, nil
}

func (p *stubProvider) DailySeries(context.Context, string) ([]domservice.DailyRecord, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.series, nil
}

type stubGenerator struct {
	text    string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

type stubIndexProvider struct {
	indices []models.MarketIndex
	err     error
	calls   int
}

func (p *stubIndexProvider) Indices(context.Context) ([]models.MarketIndex, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.indices, nil
}

var errUpstream = errors.New("upstream unavailable")
