package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"inverse-cramer/internal/config"
	"inverse-cramer/internal/metrics"
	"inverse-cramer/internal/provider"
	"inverse-cramer/internal/repository"
	"inverse-cramer/internal/service"

	"go.opentelemetry.io/otel/trace"
)

// Deps carries the optional shared connections. Nil fields disable the
// matching store or cache.
type Deps struct {
	Pool  repository.PgxPool
	Redis service.RedisClient
}

// App is the wired store and service graph shared by the server and the
// ingest command.
type App struct {
	Metrics *metrics.Metrics
	Store   repository.Store
	Search  *service.SearchService
	Stocks  *service.StockService
}

var (
	newTwitterProvider = func(cfg *config.Config, tracer trace.Tracer) service.TimelineSearcher {
		return provider.NewTwitterProvider(cfg.TwitterAPIBaseURL, cfg.TwitterAPIKey, cfg.TwitterAPIHost, tracer)
	}
	newYahooProvider = func(cfg *config.Config, tracer trace.Tracer) service.ChartFetcher {
		return provider.NewYahooProvider(cfg.YahooBaseURL, tracer)
	}
	newSQLiteStore = func(path string) (repository.Store, error) {
		return repository.NewSQLiteStore(path)
	}
)

// New opens the JSON file store under cfg.DataDir as the primary store,
// mirrors writes into Postgres and SQLite when configured, and builds both
// ingest services over it.
func New(ctx context.Context, cfg *config.Config, tracer trace.Tracer, deps Deps) (*App, error) {
	primary, err := repository.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	var replicas []repository.Store
	if deps.Pool != nil {
		pg := repository.NewPostgresStore(deps.Pool, tracer)
		if err := pg.RunMigrations(ctx); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		replicas = append(replicas, pg)
	}
	if cfg.SQLitePath != "" {
		lite, err := newSQLiteStore(cfg.SQLitePath)
		if err != nil {
			closeAll(replicas)
			return nil, err
		}
		log.Printf("SQLite mirror at %s", cfg.SQLitePath)
		replicas = append(replicas, lite)
	}
	store := repository.NewMirror(primary, replicas...)

	m := metrics.New()
	search := service.NewSearchService(tracer, newTwitterProvider(cfg, tracer), store, m, service.SearchOptions{
		Queries: cfg.SearchQueries,
		Count:   cfg.SearchCount,
		Type:    cfg.SearchType,
		Pause:   cfg.Pause(),
	})
	stocks := service.NewStockService(tracer, newYahooProvider(cfg, tracer), store, store, deps.Redis, m, service.StockOptions{
		Symbols:  cfg.Symbols,
		Range:    cfg.ChartRange,
		Interval: cfg.ChartInterval,
		CacheTTL: cfg.SeriesCacheTTL(),
		Pause:    cfg.Pause(),
	})

	return &App{Metrics: m, Store: store, Search: search, Stocks: stocks}, nil
}

// Close releases every store.
func (a *App) Close() error {
	return a.Store.Close()
}

func closeAll(stores []repository.Store) {
	var errs []error
	for _, s := range stores {
		errs = append(errs, s.Close())
	}
	if err := errors.Join(errs...); err != nil {
		log.Printf("Warning: closing stores: %v", err)
	}
}
