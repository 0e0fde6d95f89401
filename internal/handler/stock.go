package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"inverse-cramer/internal/domain"
	"inverse-cramer/internal/repository"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetStock godoc
// @Summary      Get a ticker's price series with Cramer's calls
// @Description  Returns the stored joined record: the normalized price series (or null) and the matching recommendations with performance annotations
// @Tags         stocks
// @Produce      json
// @Param        symbol  path  string  true  "Ticker symbol (e.g., AAPL)"
// @Success      200  {object}  domain.JoinedRecord
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/stock/{symbol} [get]
func (h *Handler) GetStock(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-stock")
	defer span.End()

	symbol := strings.ToUpper(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	record, err := h.stocks.Joined(ctx, symbol)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data found for " + symbol})
		return
	}
	if err != nil {
		log.Printf("Error serving data for %s: %v", symbol, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load data for " + symbol})
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetPerformance godoc
// @Summary      Summarize how a ticker moved after Cramer's calls
// @Description  Averages buy and sell call performance per horizon and reports whether inverting Cramer would have worked over one month
// @Tags         stocks
// @Produce      json
// @Param        symbol  path  string  true  "Ticker symbol (e.g., AAPL)"
// @Success      200  {object}  performance.Summary
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/stock/{symbol}/performance [get]
func (h *Handler) GetPerformance(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-performance")
	defer span.End()

	symbol := strings.ToUpper(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	summary, err := h.stocks.Performance(ctx, symbol)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data found for " + symbol})
		return
	}
	if err != nil {
		log.Printf("Error summarizing %s: %v", symbol, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load data for " + symbol})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetRecommendations godoc
// @Summary      List stored recommendation posts
// @Description  Returns the posts kept by the last search run, in query order. Empty before the first run.
// @Tags         recommendations
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /api/recommendations [get]
func (h *Handler) GetRecommendations(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-recommendations")
	defer span.End()

	posts, err := h.recommendations.Recommendations(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if posts == nil {
		posts = []domain.Post{}
	}

	span.SetAttributes(attribute.Int("count", len(posts)))
	c.JSON(http.StatusOK, gin.H{
		"count":           len(posts),
		"recommendations": posts,
	})
}
