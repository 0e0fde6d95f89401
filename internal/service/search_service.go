package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"inverse-cramer/internal/domain"
	"inverse-cramer/internal/jsontree"
	"inverse-cramer/internal/metrics"
	"inverse-cramer/internal/recommendation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type SearchOptions struct {
	Queries []string
	Count   int
	Type    string
	Pause   time.Duration
}

// SearchService runs the configured timeline searches one after another and
// stores every recommendation post found, in query order.
type SearchService struct {
	tracer   trace.Tracer
	searcher TimelineSearcher
	store    RecommendationStore
	metrics  *metrics.Metrics
	opts     SearchOptions
}

func NewSearchService(
	tracer trace.Tracer,
	searcher TimelineSearcher,
	store RecommendationStore,
	m *metrics.Metrics,
	opts SearchOptions,
) *SearchService {
	if len(opts.Queries) == 0 {
		opts.Queries = domain.DefaultSearchQueries
	}
	if opts.Count <= 0 {
		opts.Count = 100
	}
	if opts.Type == "" {
		opts.Type = "Latest"
	}
	return &SearchService{tracer: tracer, searcher: searcher, store: store, metrics: m, opts: opts}
}

// Run issues every query, then replaces the stored post list with what was
// collected. A failed query is logged and skipped. Cancellation aborts the
// run without touching the stored list.
func (s *SearchService) Run(ctx context.Context) (*RunResult, []domain.Post, error) {
	ctx, span := s.tracer.Start(ctx, "search-service.run")
	defer span.End()

	result := &RunResult{
		RunID:     uuid.NewString(),
		Kind:      "search",
		StartedAt: time.Now().UTC(),
	}
	span.SetAttributes(attribute.String("run_id", result.RunID))

	all := make([]domain.Post, 0)
	for i, q := range s.opts.Queries {
		if i > 0 {
			if err := pause(ctx, s.opts.Pause); err != nil {
				return result, nil, err
			}
		}
		result.Attempted++
		log.Printf("Searching for: %s", q)

		posts, err := s.searchOne(ctx, q)
		if err != nil {
			log.Printf("Error searching Twitter for %q: %v", q, err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", q, err))
			s.metrics.SearchQuery("error")
			continue
		}
		result.Succeeded++
		s.metrics.SearchQuery("ok")
		all = append(all, posts...)
	}
	if err := ctx.Err(); err != nil {
		return result, nil, err
	}

	if err := s.store.SaveRecommendations(ctx, all); err != nil {
		span.RecordError(err)
		return result, all, fmt.Errorf("save recommendations: %w", err)
	}

	result.Records = len(all)
	result.FinishedAt = time.Now().UTC()
	s.metrics.PostsKept(len(all))
	s.metrics.RunFinished(result.Kind, result.StartedAt, len(result.Errors) == 0)
	log.Printf("Found %d recommendations (run %s)", len(all), result.RunID)
	return result, all, nil
}

func (s *SearchService) searchOne(ctx context.Context, query string) ([]domain.Post, error) {
	raw, err := s.searcher.Search(ctx, domain.SearchQuery{Query: query, Count: s.opts.Count, Type: s.opts.Type})
	if err != nil {
		return nil, err
	}
	root, err := jsontree.Parse(raw)
	if err != nil {
		return nil, err
	}
	return recommendation.WalkTimeline(root), nil
}

// Recommendations returns the stored post list.
func (s *SearchService) Recommendations(ctx context.Context) ([]domain.Post, error) {
	ctx, span := s.tracer.Start(ctx, "search-service.recommendations")
	defer span.End()
	return s.store.LoadRecommendations(ctx)
}
