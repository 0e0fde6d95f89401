package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"inverse-cramer/internal/app"
	"inverse-cramer/internal/cache"
	"inverse-cramer/internal/config"
	"inverse-cramer/internal/db"
	"inverse-cramer/internal/domain"
	"inverse-cramer/internal/service"
	"inverse-cramer/pkg/tracing"

	"github.com/joho/godotenv"
)

const (
	cmdSearch = "search"
	cmdStocks = "stocks"
	cmdAll    = "all"
	usage     = "usage: go run ./cmd/ingest [search|stocks [SYMBOL...]|all]"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	newAppFunc       = app.New
	exitFunc         = os.Exit
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Printf("ingest failed: %v", err)
		exitFunc(1)
	}
}

func run(ctx context.Context, args []string) error {
	command, symbols, err := parseArgs(args)
	if err != nil {
		return err
	}

	if err := loadEnvFunc(); err != nil {
		log.Println("No .env file loaded")
	}
	cfg, err := loadConfigFunc()
	if err != nil {
		return err
	}

	if err := initPostgresFunc(ctx, cfg.DatabaseURL); err != nil {
		log.Printf("Warning: %v, writing JSON files only", err)
	}
	defer db.Close()
	if err := initRedisFunc(ctx, cfg.RedisURL); err != nil {
		log.Printf("Warning: %v, fetching without the series cache", err)
	}
	defer cache.Close()

	tp, tracer, err := initTracerFunc(ctx, tracing.Options{
		Enabled:     cfg.TracingEnabled,
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: tracing.DefaultServiceName + "-ingest",
	})
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	var deps app.Deps
	if db.Pool != nil {
		deps.Pool = db.Pool
	}
	if cache.Client != nil {
		deps.Redis = cache.Client
	}
	a, err := newAppFunc(ctx, cfg, tracer, deps)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("error closing stores: %v", err)
		}
	}()

	if command == cmdSearch || command == cmdAll {
		result, _, err := a.Search.Run(ctx)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		logRun(result)
	}
	if command == cmdStocks || command == cmdAll {
		result, err := a.Stocks.RunBatch(ctx, symbols)
		if err != nil {
			return fmt.Errorf("stocks: %w", err)
		}
		logRun(result)
	}
	return nil
}

// parseArgs defaults to "all". Symbols are only accepted after "stocks".
func parseArgs(args []string) (string, []string, error) {
	if len(args) == 0 {
		return cmdAll, nil, nil
	}
	command := strings.ToLower(args[0])
	switch command {
	case cmdSearch, cmdAll:
		if len(args) > 1 {
			return "", nil, fmt.Errorf("%s takes no arguments. %s", command, usage)
		}
		return command, nil, nil
	case cmdStocks:
		symbols := make([]string, 0, len(args)-1)
		for _, arg := range args[1:] {
			s := domain.NormalizeSymbol(arg)
			if !domain.ValidSymbol(s) {
				return "", nil, fmt.Errorf("invalid symbol %q", arg)
			}
			symbols = append(symbols, s)
		}
		return command, symbols, nil
	default:
		return "", nil, fmt.Errorf("unknown command %q. %s", args[0], usage)
	}
}

func logRun(r *service.RunResult) {
	log.Printf(
		"%s run %s complete attempted=%d succeeded=%d records=%d warnings=%d",
		r.Kind, r.RunID, r.Attempted, r.Succeeded, r.Records, len(r.Errors),
	)
	for _, e := range r.Errors {
		log.Printf("  %s", e)
	}
}
