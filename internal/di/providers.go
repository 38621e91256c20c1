package di

import (
	"context"
	"fmt"
	"time"

	domrepo "StockSage/internal/domain/repository"
	domservice "StockSage/internal/domain/service"
	"StockSage/internal/handler/api"
	internalrepo "StockSage/internal/repository"
	"StockSage/internal/service/alphavantage"
	"StockSage/internal/service/eastmoney"
	"StockSage/internal/service/gemini"
	"StockSage/internal/service/ratelimit"
	"StockSage/internal/services/analysis"
	"StockSage/internal/usecase"
	"StockSage/pkg/cache"
	pkgch "StockSage/pkg/clickhouse"
	"StockSage/pkg/config"
	xhttp "StockSage/pkg/http"
	pkgkafka "StockSage/pkg/kafka"
	applogger "StockSage/pkg/logger"
	"StockSage/pkg/metrics"
	"StockSage/pkg/scheduler"
	"StockSage/pkg/server"
)

// Stores bundles the storage interfaces; both backends implement all three.
type Stores struct {
	Stock    domrepo.StockStore
	Analysis domrepo.AnalysisStore
	Index    domrepo.IndexStore
}

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideStores creates the configured storage backend and applies schema.
func ProvideStores(cfg *config.Config, l *applogger.Logger) (*Stores, error) {
	if cfg.Storage.Type == "memory" {
		m := internalrepo.NewMemoryStore()
		return &Stores{Stock: m, Analysis: m, Index: m}, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	store := internalrepo.NewCHStockStore(client)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return &Stores{Stock: store, Analysis: store, Index: store}, nil
}

// ProvideCache creates the cache service, or nil when caching is disabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	if cfg.Cache.Redis {
		return cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Addr),
			cache.WithRedisPassword(cfg.Cache.Password),
			cache.WithRedisDB(cfg.Cache.DB),
		)
	}
	return cache.NewMemoryCache(), nil
}

// ProvidePublisher creates the Kafka event publisher, or nil when Kafka is
// disabled.
func ProvidePublisher(cfg *config.Config) (domrepo.EventPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer), nil
}

// ProvideLimiter creates the shared token-bucket limiter.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideMarketProvider creates the Alpha Vantage client.
func ProvideMarketProvider(cfg *config.Config, limiter *ratelimit.Limiter, l *applogger.Logger) domservice.MarketDataProvider {
	c := alphavantage.New(
		cfg.AlphaVantage.APIKey,
		cfg.AlphaVantage.BaseURL,
		cfg.AlphaVantage.Timeout,
		cfg.AlphaVantage.RequestsPerMinute,
		limiter,
	)
	c.SetLogger(l)
	return c
}

// ProvideIndexProvider creates the EastMoney client.
func ProvideIndexProvider(cfg *config.Config) domservice.IndexProvider {
	return eastmoney.New(cfg.EastMoney.BaseURL, cfg.EastMoney.Timeout)
}

// ProvideGenerator creates the Gemini client.
func ProvideGenerator(cfg *config.Config, l *applogger.Logger) domservice.TextGenerator {
	return gemini.New(
		cfg.Gemini.APIKey,
		cfg.Gemini.BaseURL,
		cfg.Gemini.Model,
		cfg.Gemini.Timeout,
		gemini.WithGeneration(cfg.Gemini.Temperature, cfg.Gemini.MaxOutputTokens),
		gemini.WithLogger(l),
	)
}

// ProvideParser creates the response parser with the deterministic scorer.
func ProvideParser() *analysis.Parser {
	return analysis.NewParser(analysis.LexiconScorer{})
}

// ProvideSyncService creates the market sync use case.
func ProvideSyncService(
	stores *Stores,
	provider domservice.MarketDataProvider,
	publisher domrepo.EventPublisher,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.SyncService {
	return usecase.NewSyncService(stores.Stock, provider, publisher, m, l, cfg.Kafka.SyncTopic)
}

// ProvideScreenService creates the screening use case.
func ProvideScreenService(
	stores *Stores,
	cacheSvc cache.Service,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.ScreenService {
	return usecase.NewScreenService(
		stores.Stock, cacheSvc, m, l,
		cfg.Screener.UniverseSize, cfg.Screener.Concurrency, cfg.Cache.ScreenTTL,
	)
}

// ProvideAnalyzeService creates the AI analysis use case.
func ProvideAnalyzeService(
	stores *Stores,
	generator domservice.TextGenerator,
	parser *analysis.Parser,
	publisher domrepo.EventPublisher,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.AnalyzeService {
	return usecase.NewAnalyzeService(
		stores.Stock, stores.Analysis, generator, parser, publisher, m, l,
		cfg.Analysis.DailyLimit, cfg.Analysis.HistoryBars, cfg.Analysis.PromptBars,
		cfg.Kafka.AnalysisTopic,
	)
}

// ProvideQueryService creates the market query use case.
func ProvideQueryService(
	stores *Stores,
	indexProvider domservice.IndexProvider,
	cacheSvc cache.Service,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.QueryService {
	return usecase.NewQueryService(stores.Stock, stores.Index, indexProvider, cacheSvc, l, cfg.Cache.IndexTTL)
}

// ProvideIndexRefresher creates the scheduled index refresher.
func ProvideIndexRefresher(
	indexProvider domservice.IndexProvider,
	stores *Stores,
	cacheSvc cache.Service,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.IndexRefresher {
	return usecase.NewIndexRefresher(indexProvider, stores.Index, cacheSvc, m, l)
}

// ProvideScheduler creates the cron scheduler with the index refresh task,
// or nil when scheduling is disabled.
func ProvideScheduler(
	cfg *config.Config,
	refresher *usecase.IndexRefresher,
	l *applogger.Logger,
) (*scheduler.Scheduler, error) {
	if !cfg.Scheduler.Enabled {
		return nil, nil
	}
	s := scheduler.New(l)
	err := s.Register(context.Background(), scheduler.Task{
		Name: "index-refresh",
		Spec: cfg.Scheduler.IndexRefresh,
		Run:  refresher.Refresh,
	}, time.Minute)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ProvideMarketHandler creates the market endpoints handler.
func ProvideMarketHandler(
	l *applogger.Logger,
	query *usecase.QueryService,
	sync *usecase.SyncService,
	stores *Stores,
) *api.MarketEchoHandler {
	return api.NewMarketEchoHandler(l, query, sync, stores.Stock)
}

// ProvideStrategiesHandler creates the screening endpoint handler.
func ProvideStrategiesHandler(l *applogger.Logger, screen *usecase.ScreenService) *api.StrategiesEchoHandler {
	return api.NewStrategiesEchoHandler(l, screen)
}

// ProvideAnalysisHandler creates the analysis endpoints handler.
func ProvideAnalysisHandler(l *applogger.Logger, analyze *usecase.AnalyzeService) *api.AnalysisEchoHandler {
	return api.NewAnalysisEchoHandler(l, analyze)
}

// ProvideRouter aggregates the handlers into the HTTP route registrar.
func ProvideRouter(
	market *api.MarketEchoHandler,
	strategies *api.StrategiesEchoHandler,
	analysisHandler *api.AnalysisEchoHandler,
) xhttp.Handler {
	return api.NewRouter(market, strategies, analysisHandler)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	stores *Stores,
	cacheSvc cache.Service,
	publisher domrepo.EventPublisher,
	sched *scheduler.Scheduler,
) *server.App {
	return server.New(cfg, l, handler, stores.Stock, cacheSvc, publisher, sched)
}
