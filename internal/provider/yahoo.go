package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"inverse-cramer/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider fetches raw price charts from the Yahoo Finance chart API.
type YahooProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewYahooProvider creates a provider against baseURL, or the public
// endpoint when baseURL is empty.
func NewYahooProvider(baseURL string, tracer trace.Tracer) *YahooProvider {
	if baseURL == "" {
		baseURL = yahooBaseURL
	}
	return &YahooProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(5, time.Second),
	}
}

// FetchChart returns the undecoded chart response for q. Range and interval
// are forwarded as given.
func (p *YahooProvider) FetchChart(ctx context.Context, q domain.PriceQuery) ([]byte, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.fetch-chart")
	defer span.End()
	span.SetAttributes(
		attribute.String("symbol", q.Symbol),
		attribute.String("range", q.Range),
		attribute.String("interval", q.Interval),
	)

	params := url.Values{}
	params.Set("region", "US")
	params.Set("interval", q.Interval)
	params.Set("range", q.Range)
	params.Set("includeAdjustedClose", "true")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", p.baseURL, url.PathEscape(q.Symbol), params.Encode())

	body, err := doGet(ctx, p.client, p.limiter, "yahoo", u, map[string]string{"User-Agent": "Mozilla/5.0"})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetch chart for %s: %w", q.Symbol, err)
	}
	return body, nil
}
