package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetIndicators godoc
// @Summary      Get the market indicator basket
// @Description  Returns the cached indicator basket (indices, FX, crypto) plus the effective federal funds rate
// @Tags         indicators
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /api/indicators [get]
func (h *Handler) GetIndicators(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-indicators")
	defer span.End()

	indicators, lastUpdated, cached, err := h.indicatorService.GetIndicators(ctx, h.cfg.IndicatorTTL)
	if err != nil {
		log.Printf("indicator fetch failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "market data is temporarily unavailable, try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"indicators":   indicators,
		"last_updated": lastUpdated,
		"cached":       cached,
	})
}
