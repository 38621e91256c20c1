package api

import (
	"errors"
	"time"

	"StockSage/internal/domain/models"
	"StockSage/internal/services/screener"
	"StockSage/internal/usecase"
	xhttp "StockSage/pkg/http"
	xlogger "StockSage/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StrategiesEchoHandler serves the strategy screening endpoint.
type StrategiesEchoHandler struct {
	logger *xlogger.Logger
	screen *usecase.ScreenService
}

func NewStrategiesEchoHandler(logger *xlogger.Logger, screen *usecase.ScreenService) *StrategiesEchoHandler {
	return &StrategiesEchoHandler{logger: logger, screen: screen}
}

func (h *StrategiesEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/strategies/screen", h.Screen)
}

func (h *StrategiesEchoHandler) Screen(c echo.Context) error {
	req := &models.ScreenRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.screen.Screen(c.Request().Context(), req.Strategy)
	if err != nil {
		var unknown *screener.ErrUnknownStrategy
		if errors.As(err, &unknown) {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("不支持的策略: %s", unknown.ID))
		}
		h.logger.Error("strategy screen error",
			xlogger.String("strategy", req.Strategy),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessWithMeta(c, res.Quotes, xhttp.ListMeta{
		Total:        len(res.Quotes),
		StrategyName: res.StrategyName,
		LastUpdate:   time.Now().UTC().Format(time.RFC3339),
	})
}
