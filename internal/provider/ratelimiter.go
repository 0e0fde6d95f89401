package provider

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter spaces outbound API calls with a token bucket.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows a burst of maxTokens calls and one more every refillInterval.
func NewRateLimiter(maxTokens int, refillInterval time.Duration) *RateLimiter {
	if maxTokens <= 0 {
		maxTokens = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Every(refillInterval), maxTokens)}
}

// Wait blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}
	return r.limiter.Wait(ctx)
}
