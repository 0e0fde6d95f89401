package repository

import (
	"context"
	"errors"

	"inverse-cramer/internal/domain"
)

// ErrNotFound is returned by loads when nothing has been stored yet.
var ErrNotFound = errors.New("not found")

// Store persists the two ingest products: the recommendation post list and
// one joined record per ticker. Saving the post list replaces the previous one.
type Store interface {
	SaveRecommendations(ctx context.Context, posts []domain.Post) error
	LoadRecommendations(ctx context.Context) ([]domain.Post, error)
	SaveJoined(ctx context.Context, symbol string, record *domain.JoinedRecord) error
	LoadJoined(ctx context.Context, symbol string) (*domain.JoinedRecord, error)
	Close() error
}
