package handler

import (
	"errors"
	"log"
	"net/http"

	"macro-wide/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetLiquidity godoc
// @Summary      Get the net liquidity snapshot and history
// @Description  Returns fed assets, TGA, reverse repo, net liquidity, and the S&P 500, with week-over-week changes and the full aligned history
// @Tags         liquidity
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/liquidity [get]
func (h *Handler) GetLiquidity(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-liquidity")
	defer span.End()

	snapshot, history, lastUpdated, cached, err := h.liquidityService.GetLiquidityData(ctx, h.cfg.LiquidityTTL, h.cfg.FREDAPIKey)
	if err != nil {
		if errors.Is(err, domain.ErrMissingFREDKey) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		log.Printf("liquidity fetch failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "liquidity data is temporarily unavailable, try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"current":      snapshot,
		"history":      history,
		"last_updated": lastUpdated,
		"cached":       cached,
	})
}
