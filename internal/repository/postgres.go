package repository

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"inverse-cramer/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

// Migrations holds the versioned schema files, NNNN_name.up.sql and
// NNNN_name.down.sql, shared with cmd/migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore mirrors ingest output into Postgres.
type PostgresStore struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewPostgresStore(pool PgxPool, tracer trace.Tracer) *PostgresStore {
	return &PostgresStore{pool: pool, tracer: tracer}
}

func (r *PostgresStore) RunMigrations(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "postgres-store.run-migrations")
	defer span.End()

	files, err := fs.Glob(Migrations, "migrations/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, name := range files {
		body, err := fs.ReadFile(Migrations, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := r.pool.Exec(ctx, string(body)); err != nil {
			span.RecordError(err)
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}

// SaveRecommendations replaces the stored post list in one batch.
func (r *PostgresStore) SaveRecommendations(ctx context.Context, posts []domain.Post) error {
	ctx, span := r.tracer.Start(ctx, "postgres-store.save-recommendations")
	defer span.End()

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM cramer_posts`)
	for i, p := range posts {
		symbols := p.StockSymbols
		if symbols == nil {
			symbols = []string{}
		}
		batch.Queue(
			`INSERT INTO cramer_posts (position, tweet_id, user_name, screen_name, text, created_at, symbols, sentiment)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			i, p.ID, p.User.Name, p.User.ScreenName, p.Text, p.CreatedAt, symbols, string(p.Sentiment),
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("save recommendations: %w", err)
		}
	}
	return nil
}

func (r *PostgresStore) LoadRecommendations(ctx context.Context) ([]domain.Post, error) {
	ctx, span := r.tracer.Start(ctx, "postgres-store.load-recommendations")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT tweet_id, user_name, screen_name, text, created_at, symbols, sentiment
		 FROM cramer_posts
		 ORDER BY position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		var p domain.Post
		var sentiment string
		if err := rows.Scan(&p.ID, &p.User.Name, &p.User.ScreenName, &p.Text, &p.CreatedAt, &p.StockSymbols, &sentiment); err != nil {
			return nil, err
		}
		p.Sentiment = domain.Sentiment(sentiment)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostgresStore) SaveJoined(ctx context.Context, symbol string, record *domain.JoinedRecord) error {
	ctx, span := r.tracer.Start(ctx, "postgres-store.save-joined")
	defer span.End()

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode joined record: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO joined_records (symbol, payload, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (symbol) DO UPDATE SET
		     payload = EXCLUDED.payload,
		     updated_at = EXCLUDED.updated_at`,
		strings.ToUpper(symbol), string(payload),
	)
	return err
}

func (r *PostgresStore) LoadJoined(ctx context.Context, symbol string) (*domain.JoinedRecord, error) {
	ctx, span := r.tracer.Start(ctx, "postgres-store.load-joined")
	defer span.End()

	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT payload FROM joined_records WHERE symbol = $1`,
		strings.ToUpper(symbol),
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var record domain.JoinedRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decode joined record: %w", err)
	}
	return &record, nil
}

// Close is a no-op; the pool is owned by the caller.
func (r *PostgresStore) Close() error { return nil }
