package handler

import (
	"context"
	"net/http"

	"inverse-cramer/internal/domain"
	"inverse-cramer/internal/performance"
	"inverse-cramer/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type StockReader interface {
	Joined(ctx context.Context, symbol string) (*domain.JoinedRecord, error)
	Performance(ctx context.Context, symbol string) (*performance.Summary, error)
}

type RecommendationReader interface {
	Recommendations(ctx context.Context) ([]domain.Post, error)
}

type Refresher interface {
	Refresh(ctx context.Context, symbols []string, search bool) ([]*service.RunResult, error)
}

type Handler struct {
	tracer          trace.Tracer
	stocks          StockReader
	recommendations RecommendationReader
	refresher       Refresher
	metrics         http.Handler
	apiKey          string
	checks          map[string]CheckFunc
}

func New(tracer trace.Tracer, stocks StockReader, recommendations RecommendationReader) *Handler {
	return &Handler{
		tracer:          tracer,
		stocks:          stocks,
		recommendations: recommendations,
	}
}

func (h *Handler) SetRefresher(r Refresher) {
	h.refresher = r
}

func (h *Handler) SetMetricsHandler(m http.Handler) {
	h.metrics = m
}

// SetAPIKey guards the refresh route. An empty key leaves it open.
func (h *Handler) SetAPIKey(key string) {
	h.apiKey = key
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics))
	}

	api := r.Group("/api")
	api.GET("/recommendations", h.GetRecommendations)
	api.GET("/stock/:symbol", h.GetStock)
	api.GET("/stock/:symbol/performance", h.GetPerformance)
	api.POST("/refresh", APIKeyAuth(h.apiKey), h.TriggerRefresh)
}
