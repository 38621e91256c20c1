// Package api exposes the HTTP surface: market data, screening and AI
// analysis endpoints, all wrapped in the {success, data, meta} envelope.
package api

import (
	"errors"
	"time"

	"StockSage/internal/domain/models"
	domrepo "StockSage/internal/domain/repository"
	"StockSage/internal/usecase"
	xhttp "StockSage/pkg/http"
	xlogger "StockSage/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketEchoHandler serves the read-side market endpoints plus the on-demand
// sync endpoint.
type MarketEchoHandler struct {
	logger *xlogger.Logger
	query  *usecase.QueryService
	sync   *usecase.SyncService
	store  domrepo.StockStore
}

func NewMarketEchoHandler(
	logger *xlogger.Logger,
	query *usecase.QueryService,
	sync *usecase.SyncService,
	store domrepo.StockStore,
) *MarketEchoHandler {
	return &MarketEchoHandler{logger: logger, query: query, sync: sync, store: store}
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	g := e.Group("/api")
	g.GET("/stocks", h.Stocks)
	g.GET("/market-indices", h.Indices)
	g.GET("/market-data", h.Rankings)
	g.GET("/stock-data", h.StockData)
}

func (h *MarketEchoHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Error("storage health check failed", xlogger.Error(err))
		return xhttp.ErrorResponse(c, 503, "存储服务不可用", nil)
	}
	return xhttp.SuccessResponse(c, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *MarketEchoHandler) Stocks(c echo.Context) error {
	req := &models.StockListRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	list, err := h.query.ListStocks(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("stock list error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessWithMeta(c, list.Stocks, xhttp.ListMeta{
		Total:         list.Total,
		HasTestData:   list.TestDataCount > 0,
		TestDataCount: list.TestDataCount,
		LastUpdate:    time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *MarketEchoHandler) Indices(c echo.Context) error {
	req := &models.MarketIndicesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	indices, err := h.query.Indices(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("market indices error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessWithMeta(c, indices, xhttp.ListMeta{
		Total:      len(indices),
		LastUpdate: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *MarketEchoHandler) Rankings(c echo.Context) error {
	req := &models.MarketRankingRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	quotes, err := h.query.Rankings(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("market ranking error",
			xlogger.String("action", req.Action),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessWithMeta(c, quotes, xhttp.ListMeta{Total: len(quotes)})
}

func (h *MarketEchoHandler) StockData(c echo.Context) error {
	req := &models.StockDataRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.sync.StockData(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return xhttp.NotFoundResponse(c, "未找到该股票")
		}
		h.logger.Error("stock data error",
			xlogger.String("ticker", req.Ticker),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("alphavantage", "获取股票数据失败").WithError(err))
	}
	return xhttp.SuccessResponse(c, res)
}
