package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"inverse-cramer/internal/domain"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a single-file store for deployments without Postgres.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database at path and migrates it.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("SQLite store opened: %s", path)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cramer_posts (
			position    INTEGER PRIMARY KEY,
			tweet_id    TEXT NOT NULL,
			user_name   TEXT NOT NULL,
			screen_name TEXT NOT NULL,
			text        TEXT NOT NULL,
			created_at  TEXT NOT NULL,
			symbols     TEXT NOT NULL,
			sentiment   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS joined_records (
			symbol     TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveRecommendations(ctx context.Context, posts []domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cramer_posts`); err != nil {
		return fmt.Errorf("clear posts: %w", err)
	}
	for i, p := range posts {
		symbols, err := json.Marshal(nonNil(p.StockSymbols))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cramer_posts (position, tweet_id, user_name, screen_name, text, created_at, symbols, sentiment)
			 VALUES (?,?,?,?,?,?,?,?)`,
			i, p.ID, p.User.Name, p.User.ScreenName, p.Text, p.CreatedAt, string(symbols), string(p.Sentiment),
		); err != nil {
			return fmt.Errorf("insert post %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadRecommendations(ctx context.Context) ([]domain.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tweet_id, user_name, screen_name, text, created_at, symbols, sentiment
		 FROM cramer_posts ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		var p domain.Post
		var symbols, sentiment string
		if err := rows.Scan(&p.ID, &p.User.Name, &p.User.ScreenName, &p.Text, &p.CreatedAt, &symbols, &sentiment); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(symbols), &p.StockSymbols); err != nil {
			return nil, fmt.Errorf("decode symbols: %w", err)
		}
		p.Sentiment = domain.Sentiment(sentiment)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *SQLiteStore) SaveJoined(ctx context.Context, symbol string, record *domain.JoinedRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode joined record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO joined_records (symbol, payload, updated_at)
		 VALUES (?, ?, strftime('%s','now'))
		 ON CONFLICT(symbol) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		strings.ToUpper(symbol), string(payload),
	)
	return err
}

func (s *SQLiteStore) LoadJoined(ctx context.Context, symbol string) (*domain.JoinedRecord, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM joined_records WHERE symbol = ?`, strings.ToUpper(symbol),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var record domain.JoinedRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("decode joined record: %w", err)
	}
	return &record, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
