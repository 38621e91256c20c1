package usecase

import (
	"context"

	domrepo "StockSage/internal/domain/repository"
	domservice "StockSage/internal/domain/service"
	"StockSage/pkg/cache"
	applogger "StockSage/pkg/logger"
)

// IndexRefresher pulls index snapshots on a schedule and keeps the store
// and cache in sync.
type IndexRefresher struct {
	provider domservice.IndexProvider
	store    domrepo.IndexStore
	cache    cache.Service
	metrics  domrepo.Metrics
	l        *applogger.Logger
}

func NewIndexRefresher(
	provider domservice.IndexProvider,
	store domrepo.IndexStore,
	cacheSvc cache.Service,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *IndexRefresher {
	return &IndexRefresher{
		provider: provider,
		store:    store,
		cache:    cacheSvc,
		metrics:  metrics,
		l:        l,
	}
}

// Refresh fetches snapshots, upserts them and drops the cached copy so the
// next read sees fresh values.
func (r *IndexRefresher) Refresh(ctx context.Context) error {
	indices, err := r.provider.Indices(ctx)
	if err != nil {
		r.metrics.RecordProviderFetch("eastmoney", "error")
		return err
	}
	r.metrics.RecordProviderFetch("eastmoney", "ok")

	if err := r.store.UpsertIndices(ctx, indices); err != nil {
		return err
	}
	if r.cache != nil {
		if err := r.cache.Delete(ctx, indexCacheKey); err != nil {
			r.l.Warn("index cache invalidation failed", applogger.Error(err))
		}
	}
	r.l.Info("market indices refreshed", applogger.Int("count", len(indices)))
	return nil
}
