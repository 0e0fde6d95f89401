package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"inverse-cramer/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	twitterBaseURL = "https://twitter241.p.rapidapi.com"
	twitterHost    = "twitter241.p.rapidapi.com"
)

// TwitterProvider runs timeline searches against a RapidAPI-hosted Twitter API.
type TwitterProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	host    string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewTwitterProvider creates a search client. Empty baseURL and host fall
// back to the default RapidAPI endpoint.
func NewTwitterProvider(baseURL, apiKey, host string, tracer trace.Tracer) *TwitterProvider {
	if baseURL == "" {
		baseURL = twitterBaseURL
	}
	if host == "" {
		host = twitterHost
	}
	return &TwitterProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		host:    host,
		tracer:  tracer,
		limiter: NewRateLimiter(1, time.Second),
	}
}

// Search returns the undecoded search timeline for q.
func (p *TwitterProvider) Search(ctx context.Context, q domain.SearchQuery) ([]byte, error) {
	ctx, span := p.tracer.Start(ctx, "twitter.search")
	defer span.End()
	span.SetAttributes(attribute.String("query", q.Query), attribute.Int("count", q.Count))

	params := url.Values{}
	params.Set("query", q.Query)
	params.Set("count", strconv.Itoa(q.Count))
	params.Set("type", q.Type)
	u := fmt.Sprintf("%s/search-v2?%s", p.baseURL, params.Encode())

	headers := map[string]string{"x-rapidapi-host": p.host}
	if p.apiKey != "" {
		headers["x-rapidapi-key"] = p.apiKey
	}

	body, err := doGet(ctx, p.client, p.limiter, "twitter", u, headers)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("search %q: %w", q.Query, err)
	}
	return body, nil
}
