package service

import (
	"context"
	"errors"
	"time"

	"inverse-cramer/internal/domain"

	"github.com/redis/go-redis/v9"
)

type TimelineSearcher interface {
	Search(ctx context.Context, q domain.SearchQuery) ([]byte, error)
}

type ChartFetcher interface {
	FetchChart(ctx context.Context, q domain.PriceQuery) ([]byte, error)
}

type RecommendationStore interface {
	SaveRecommendations(ctx context.Context, posts []domain.Post) error
	LoadRecommendations(ctx context.Context) ([]domain.Post, error)
}

type JoinedStore interface {
	SaveJoined(ctx context.Context, symbol string, record *domain.JoinedRecord) error
	LoadJoined(ctx context.Context, symbol string) (*domain.JoinedRecord, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RunResult summarizes one batch run. Per-item failures land in Errors and
// do not stop the batch.
type RunResult struct {
	RunID      string    `json:"run_id"`
	Kind       string    `json:"kind"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Attempted  int       `json:"attempted"`
	Succeeded  int       `json:"succeeded"`
	Records    int       `json:"records"`
	Errors     []string  `json:"errors,omitempty"`
}

// pause waits d between upstream calls, returning early if ctx ends.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ErrRunInProgress is returned when a refresh is requested while another is
// still running.
var ErrRunInProgress = errors.New("refresh already in progress")
