package db

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

var (
	parsePoolConfig = pgxpool.ParseConfig
	newPool         = pgxpool.NewWithConfig
	pingPool        = func(ctx context.Context, pool *pgxpool.Pool) error {
		return pool.Ping(ctx)
	}
)

// InitPostgres opens Pool against dsn. An empty dsn leaves Pool nil and the
// Postgres mirror disabled.
func InitPostgres(ctx context.Context, dsn string) error {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		log.Println("DATABASE_URL not set, Postgres store disabled")
		return nil
	}

	cfg, err := parsePoolConfig(dsn)
	if err != nil {
		return fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := newPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pingPool(ctx, pool); err != nil {
		pool.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}

	Pool = pool
	log.Println("Connected to Postgres")
	return nil
}

// Close closes Pool if it was opened.
func Close() {
	if Pool != nil {
		Pool.Close()
		Pool = nil
	}
}
