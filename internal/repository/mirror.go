package repository

import (
	"context"
	"errors"
	"log"

	"inverse-cramer/internal/domain"
)

// Mirror writes through to a primary store and any number of replicas.
// Reads come from the primary only. Replica failures are logged, not returned.
type Mirror struct {
	primary  Store
	replicas []Store
}

func NewMirror(primary Store, replicas ...Store) *Mirror {
	return &Mirror{primary: primary, replicas: replicas}
}

func (m *Mirror) SaveRecommendations(ctx context.Context, posts []domain.Post) error {
	if err := m.primary.SaveRecommendations(ctx, posts); err != nil {
		return err
	}
	for _, r := range m.replicas {
		if err := r.SaveRecommendations(ctx, posts); err != nil {
			log.Printf("Warning: replica save recommendations failed: %v", err)
		}
	}
	return nil
}

func (m *Mirror) LoadRecommendations(ctx context.Context) ([]domain.Post, error) {
	return m.primary.LoadRecommendations(ctx)
}

func (m *Mirror) SaveJoined(ctx context.Context, symbol string, record *domain.JoinedRecord) error {
	if err := m.primary.SaveJoined(ctx, symbol, record); err != nil {
		return err
	}
	for _, r := range m.replicas {
		if err := r.SaveJoined(ctx, symbol, record); err != nil {
			log.Printf("Warning: replica save joined %s failed: %v", symbol, err)
		}
	}
	return nil
}

func (m *Mirror) LoadJoined(ctx context.Context, symbol string) (*domain.JoinedRecord, error) {
	return m.primary.LoadJoined(ctx, symbol)
}

func (m *Mirror) Close() error {
	errs := []error{m.primary.Close()}
	for _, r := range m.replicas {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}
