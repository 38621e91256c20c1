package api

import "github.com/labstack/echo/v4"

// Router aggregates the endpoint handlers into a single route registrar.
type Router struct {
	Market     *MarketEchoHandler
	Strategies *StrategiesEchoHandler
	Analysis   *AnalysisEchoHandler
}

func NewRouter(market *MarketEchoHandler, strategies *StrategiesEchoHandler, analysis *AnalysisEchoHandler) *Router {
	return &Router{Market: market, Strategies: strategies, Analysis: analysis}
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	r.Market.RegisterRoutes(e)
	r.Strategies.RegisterRoutes(e)
	r.Analysis.RegisterRoutes(e)
}
