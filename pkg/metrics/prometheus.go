package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	providerFetches  *prometheus.CounterVec
	modelInvocations *prometheus.CounterVec
	screenDuration   *prometheus.HistogramVec
	quotaRejections  prometheus.Counter
	lastPrice        *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		providerFetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksage_provider_fetches_total",
				Help: "External market data provider fetches by outcome",
			},
			[]string{"provider", "outcome"},
		),
		modelInvocations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksage_model_invocations_total",
				Help: "Generative model invocations by outcome",
			},
			[]string{"outcome"},
		),
		screenDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stocksage_screen_duration_seconds",
				Help:    "Strategy screening duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
		quotaRejections: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stocksage_quota_rejections_total",
				Help: "Analysis requests rejected by the daily quota",
			},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stocksage_last_price",
				Help: "Last observed close price per ticker",
			},
			[]string{"ticker"},
		),
	}
}

// RecordProviderFetch records an external data provider fetch.
func (r *Recorder) RecordProviderFetch(provider, outcome string) {
	r.providerFetches.WithLabelValues(provider, outcome).Inc()
}

// RecordModelInvocation records a generative model call.
func (r *Recorder) RecordModelInvocation(outcome string) {
	r.modelInvocations.WithLabelValues(outcome).Inc()
}

// RecordScreenDuration records a screening run duration.
func (r *Recorder) RecordScreenDuration(strategy string, seconds float64) {
	r.screenDuration.WithLabelValues(strategy).Observe(seconds)
}

// RecordQuotaRejection records one 429 rejection.
func (r *Recorder) RecordQuotaRejection() {
	r.quotaRejections.Inc()
}

// RecordLastPrice records the latest close price for a ticker.
func (r *Recorder) RecordLastPrice(ticker string, price float64) {
	r.lastPrice.WithLabelValues(ticker).Set(price)
}
