package provider

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterBurstIsImmediate(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("wait %d: unexpected error: %v", i, err)
		}
	}
	if time.Since(start) > 20*time.Millisecond {
		t.Fatalf("burst waits should return immediately")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	limiter := NewRateLimiter(1, 5*time.Millisecond)
	ctx := context.Background()

	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("expected token after refill, got %v", err)
	}
}

func TestRateLimiterStopsOnDeadline(t *testing.T) {
	limiter := NewRateLimiter(1, time.Second)
	_ = limiter.Wait(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := limiter.Wait(ctx); err == nil {
		t.Fatal("expected deadline error")
	}
	if time.Since(start) > 200*time.Millisecond {
		t.Fatalf("wait should give up once the deadline cannot be met")
	}
}

func TestNilRateLimiterNeverBlocks(t *testing.T) {
	var limiter *RateLimiter
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("nil limiter should not fail: %v", err)
	}
}
