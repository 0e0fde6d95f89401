package handler

import (
	"errors"
	"net/http"
	"strings"

	"inverse-cramer/internal/domain"
	"inverse-cramer/internal/service"

	"github.com/gin-gonic/gin"
)

// TriggerRefresh godoc
// @Summary      Run a search and stock refresh now
// @Description  Runs the timeline search (unless skip_search=true) and then rebuilds the joined record for each requested ticker, or the configured batch when none are given
// @Tags         refresh
// @Produce      json
// @Param        symbols      query  string  false  "Comma-separated tickers (e.g., AAPL,TSLA)"
// @Param        skip_search  query  bool    false  "Reuse stored posts instead of searching"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/refresh [post]
func (h *Handler) TriggerRefresh(c *gin.Context) {
	if h.refresher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "refresh unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.trigger-refresh")
	defer span.End()

	var symbols []string
	for _, s := range strings.Split(c.Query("symbols"), ",") {
		s = domain.NormalizeSymbol(s)
		if s == "" {
			continue
		}
		if !domain.ValidSymbol(s) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid symbol: " + s})
			return
		}
		symbols = append(symbols, s)
	}
	search := c.Query("skip_search") != "true"

	runs, err := h.refresher.Refresh(ctx, symbols, search)
	if errors.Is(err, service.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "runs": runs})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"runs":   runs,
	})
}
