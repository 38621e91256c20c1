package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "StockSage/internal/domain/repository"
	"StockSage/pkg/cache"
	"StockSage/pkg/config"
	xhttp "StockSage/pkg/http"
	applogger "StockSage/pkg/logger"
	"StockSage/pkg/scheduler"
)

// App encapsulates the application lifecycle: HTTP server, scheduled jobs
// and infrastructure clients.
type App struct {
	cfg       *config.Config
	logger    *applogger.Logger
	handler   xhttp.Handler
	store     domrepo.StockStore
	cache     cache.Service
	publisher domrepo.EventPublisher
	scheduler *scheduler.Scheduler

	httpServer *xhttp.Server
}

// New creates an App. cache, publisher and sched may be nil when the
// corresponding subsystem is disabled in config.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	store domrepo.StockStore,
	cacheSvc cache.Service,
	publisher domrepo.EventPublisher,
	sched *scheduler.Scheduler,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		handler:   handler,
		store:     store,
		cache:     cacheSvc,
		publisher: publisher,
		scheduler: sched,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.scheduler != nil {
		a.scheduler.Start()
		a.logger.Info("scheduler started")
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("storage", a.cfg.Storage.Type),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all subsystems.
func (a *App) shutdown() error {
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("store close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
