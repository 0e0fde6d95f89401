package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"inverse-cramer/internal/chart"
	"inverse-cramer/internal/domain"
	"inverse-cramer/internal/metrics"
	"inverse-cramer/internal/performance"
	"inverse-cramer/internal/recommendation"
	"inverse-cramer/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type StockOptions struct {
	Symbols  []string
	Range    string
	Interval string
	CacheTTL time.Duration
	Pause    time.Duration
}

// StockService fetches price series, joins them with stored recommendations
// and persists one record per ticker.
type StockService struct {
	tracer  trace.Tracer
	fetcher ChartFetcher
	posts   RecommendationStore
	joined  JoinedStore
	redis   RedisClient
	metrics *metrics.Metrics
	opts    StockOptions
}

func NewStockService(
	tracer trace.Tracer,
	fetcher ChartFetcher,
	posts RecommendationStore,
	joined JoinedStore,
	redisClient RedisClient,
	m *metrics.Metrics,
	opts StockOptions,
) *StockService {
	if len(opts.Symbols) == 0 {
		opts.Symbols = domain.DefaultSymbols
	}
	if opts.Range == "" {
		opts.Range = "5y"
	}
	if opts.Interval == "" {
		opts.Interval = "1mo"
	}
	return &StockService{
		tracer:  tracer,
		fetcher: fetcher,
		posts:   posts,
		joined:  joined,
		redis:   redisClient,
		metrics: m,
		opts:    opts,
	}
}

// Symbols returns the configured batch.
func (s *StockService) Symbols() []string {
	return append([]string(nil), s.opts.Symbols...)
}

// FetchSeries returns the normalized series for symbol. Upstream failures
// and unusable payloads are logged and reported as absent.
func (s *StockService) FetchSeries(ctx context.Context, symbol string) (*domain.PriceSeries, bool) {
	ctx, span := s.tracer.Start(ctx, "stock-service.fetch-series")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	if s.redis != nil {
		cached, err := s.getSeriesCache(ctx, symbol)
		if err != nil {
			log.Printf("redis cache read error for %s: %v", symbol, err)
		}
		s.metrics.CacheLookup(cached != nil)
		if cached != nil {
			return cached, true
		}
	}

	raw, err := s.fetcher.FetchChart(ctx, domain.PriceQuery{Symbol: symbol, Range: s.opts.Range, Interval: s.opts.Interval})
	if err != nil {
		log.Printf("Error retrieving stock data for %s: %v", symbol, err)
		return nil, false
	}
	series, ok := chart.Normalize(raw)
	if !ok {
		log.Printf("No chart result for %s", symbol)
		return nil, false
	}

	if s.redis != nil {
		if err := s.setSeriesCache(ctx, symbol, series); err != nil {
			log.Printf("redis cache write error for %s: %v", symbol, err)
		}
	}
	return series, true
}

// Candidates loads the stored posts and flattens them to per-ticker entries.
// A missing or unreadable post list yields no candidates.
func (s *StockService) Candidates(ctx context.Context) []domain.RecommendationEntry {
	posts, err := s.posts.LoadRecommendations(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		log.Println("No stored recommendations yet, joining against an empty set")
		return []domain.RecommendationEntry{}
	}
	if err != nil {
		log.Printf("Error loading recommendations: %v", err)
		return []domain.RecommendationEntry{}
	}
	return recommendation.Entries(posts)
}

// Build joins symbol's series with its recommendations, annotates their
// performance and stores the record.
func (s *StockService) Build(ctx context.Context, symbol string) (*domain.JoinedRecord, error) {
	ctx, span := s.tracer.Start(ctx, "stock-service.build")
	defer span.End()

	symbol = domain.NormalizeSymbol(symbol)
	if !domain.ValidSymbol(symbol) {
		return nil, fmt.Errorf("invalid symbol %q", symbol)
	}
	span.SetAttributes(attribute.String("symbol", symbol))

	series, _ := s.FetchSeries(ctx, symbol)
	record := recommendation.Join(symbol, s.Candidates(ctx), series)
	record.CramerRecommendations = performance.Annotate(record.CramerRecommendations, series)

	if err := s.joined.SaveJoined(ctx, symbol, &record); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("save %s: %w", symbol, err)
	}
	log.Printf("Stock data and Cramer recommendations for %s saved (%d recommendations)", symbol, len(record.CramerRecommendations))
	return &record, nil
}

// RunBatch builds every symbol in order, pausing between them. Nil or empty
// symbols means the configured batch.
func (s *StockService) RunBatch(ctx context.Context, symbols []string) (*RunResult, error) {
	ctx, span := s.tracer.Start(ctx, "stock-service.run-batch")
	defer span.End()

	if len(symbols) == 0 {
		symbols = s.opts.Symbols
	}
	result := &RunResult{
		RunID:     uuid.NewString(),
		Kind:      "stocks",
		StartedAt: time.Now().UTC(),
	}
	span.SetAttributes(attribute.String("run_id", result.RunID))

	for i, symbol := range symbols {
		if i > 0 {
			if err := pause(ctx, s.opts.Pause); err != nil {
				return result, err
			}
		}
		result.Attempted++
		log.Printf("Processing %s...", symbol)

		record, err := s.Build(ctx, symbol)
		if err != nil {
			log.Printf("Error processing %s: %v", symbol, err)
			result.Errors = append(result.Errors, err.Error())
			s.metrics.SymbolProcessed("error")
			continue
		}
		result.Succeeded++
		result.Records += len(record.CramerRecommendations)
		s.metrics.SymbolProcessed("ok")
	}

	result.FinishedAt = time.Now().UTC()
	s.metrics.RunFinished(result.Kind, result.StartedAt, len(result.Errors) == 0)
	return result, nil
}

// Joined returns the stored record for symbol.
func (s *StockService) Joined(ctx context.Context, symbol string) (*domain.JoinedRecord, error) {
	ctx, span := s.tracer.Start(ctx, "stock-service.joined")
	defer span.End()

	symbol = domain.NormalizeSymbol(symbol)
	if !domain.ValidSymbol(symbol) {
		return nil, repository.ErrNotFound
	}
	return s.joined.LoadJoined(ctx, symbol)
}

// Performance summarizes the stored record for symbol. Entries stored
// without performance data are annotated from the stored series first.
func (s *StockService) Performance(ctx context.Context, symbol string) (*performance.Summary, error) {
	record, err := s.Joined(ctx, symbol)
	if err != nil {
		return nil, err
	}
	entries := record.CramerRecommendations
	for _, e := range entries {
		if e.Performance == nil {
			entries = performance.Annotate(entries, record.StockData)
			break
		}
	}
	summary := performance.Summarize(domain.NormalizeSymbol(symbol), entries)
	return &summary, nil
}

func (s *StockService) seriesKey(symbol string) string {
	return fmt.Sprintf("series:%s:%s:%s", symbol, s.opts.Range, s.opts.Interval)
}

func (s *StockService) setSeriesCache(ctx context.Context, symbol string, series *domain.PriceSeries) error {
	data, err := json.Marshal(series)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, s.seriesKey(symbol), data, s.opts.CacheTTL).Err()
}

func (s *StockService) getSeriesCache(ctx context.Context, symbol string) (*domain.PriceSeries, error) {
	data, err := s.redis.Get(ctx, s.seriesKey(symbol)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var series domain.PriceSeries
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, err
	}
	return &series, nil
}
