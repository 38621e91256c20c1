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

// AnalysisEchoHandler serves the AI analysis endpoints.
type AnalysisEchoHandler struct {
	logger  *xlogger.Logger
	analyze *usecase.AnalyzeService
}

func NewAnalysisEchoHandler(logger *xlogger.Logger, analyze *usecase.AnalyzeService) *AnalysisEchoHandler {
	return &AnalysisEchoHandler{logger: logger, analyze: analyze}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/ai-analysis", h.Analyze)
	g.POST("/quick-analysis", h.QuickAnalyze)
}

func (h *AnalysisEchoHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyze.Analyze(c.Request().Context(), req)
	if err != nil {
		var quota *usecase.QuotaError
		switch {
		case errors.As(err, &quota):
			return xhttp.AppErrorResponse(c, xhttp.RateLimitError(
				"今日分析次数已用完", quota.Limit, 0, quota.ResetAt.Format(time.RFC3339),
			))
		case errors.Is(err, domrepo.ErrNotFound):
			return xhttp.NotFoundResponse(c, "未找到该股票")
		}
		h.logger.Error("ai analysis error",
			xlogger.String("ticker", req.Ticker),
			xlogger.String("user_id", req.UserID),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("gemini", "分析服务暂时不可用").WithError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) QuickAnalyze(c echo.Context) error {
	req := &models.QuickAnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyze.QuickAnalyze(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("quick analysis error",
			xlogger.String("ticker", req.Ticker),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("gemini", "分析服务暂时不可用").WithError(err))
	}
	return xhttp.SuccessResponse(c, res)
}
