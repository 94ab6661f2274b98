package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetQuote godoc
// @Summary      Get a stock quote
// @Description  Returns price, change, volume, and market cap for one symbol; unavailable fields come back as placeholders
// @Tags         quotes
// @Produce      json
// @Param        symbol  path  string  true  "Ticker symbol (e.g., NVDA, 005930.KS)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/quote/{symbol} [get]
func (h *Handler) GetQuote(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-quote")
	defer span.End()

	symbol := strings.TrimSpace(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	quote, lastUpdated, cached := h.stockService.GetStockQuote(ctx, symbol, h.cfg.StockTTL)

	c.JSON(http.StatusOK, gin.H{
		"quote":        quote,
		"last_updated": lastUpdated,
		"cached":       cached,
	})
}
