package handler

import (
	"macro-wide/internal/config"
	"macro-wide/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	tracer           trace.Tracer
	indicatorService *service.IndicatorService
	stockService     *service.StockService
	liquidityService *service.LiquidityService
	cfg              *config.Config
}

func New(tracer trace.Tracer, indicatorService *service.IndicatorService, stockService *service.StockService, liquidityService *service.LiquidityService, cfg *config.Config) *Handler {
	return &Handler{
		tracer:           tracer,
		indicatorService: indicatorService,
		stockService:     stockService,
		liquidityService: liquidityService,
		cfg:              cfg,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/indicators", h.GetIndicators)
	r.GET("/api/quote/:symbol", h.GetQuote)
	r.GET("/api/liquidity", h.GetLiquidity)
}
