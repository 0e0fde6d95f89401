package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"inverse-cramer/internal/config"
	"inverse-cramer/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const (
	cmdUp      = "up"
	cmdDown    = "down"
	cmdVersion = "version"
	usage      = "usage: go run ./cmd/migrate [up|down|version] [steps]"
)

var migrationFile = regexp.MustCompile(`^migrations/([0-9]+)_([a-z0-9_]+)\.(up|down)\.sql$`)

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	openPool       = func(ctx context.Context, dsn string) (migrationDB, func(), error) {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return pool, pool.Close, nil
	}
)

// migrationDB is the slice of *pgxpool.Pool the migrator needs.
type migrationDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

func main() {
	if err := loadEnvFunc(); err != nil {
		log.Println("No .env file loaded")
	}

	command, steps, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := loadConfigFunc()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	migrations, err := loadMigrations(repository.Migrations)
	if err != nil {
		log.Fatalf("load migrations: %v", err)
	}

	ctx := context.Background()
	db, closeDB, err := openPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer closeDB()

	msg, err := run(ctx, db, migrations, command, steps)
	if err != nil {
		log.Fatal(err)
	}
	log.Println(msg)
}

// parseArgs accepts a step count only for down, defaulting to one.
func parseArgs(args []string) (string, int, error) {
	if len(args) == 0 {
		return "", 0, errors.New(usage)
	}
	switch args[0] {
	case cmdUp, cmdVersion:
		return args[0], 0, nil
	case cmdDown:
		if len(args) < 2 {
			return cmdDown, 1, nil
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return "", 0, fmt.Errorf("invalid down steps: %q", args[1])
		}
		return cmdDown, n, nil
	default:
		return "", 0, fmt.Errorf("unknown command %q. %s", args[0], usage)
	}
}

func run(ctx context.Context, db migrationDB, migrations []migration, command string, steps int) (string, error) {
	if err := ensureMigrationTable(ctx, db); err != nil {
		return "", fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	switch command {
	case cmdUp:
		applied, err := applyUp(ctx, db, migrations)
		if err != nil {
			return "", fmt.Errorf("apply migrations up: %w", err)
		}
		return fmt.Sprintf("migrations up complete (%d applied)", applied), nil
	case cmdDown:
		rolledBack, err := applyDown(ctx, db, migrations, steps)
		if err != nil {
			return "", fmt.Errorf("apply migrations down: %w", err)
		}
		return fmt.Sprintf("migrations down complete (%d rolled back)", rolledBack), nil
	default:
		version, name, err := currentVersion(ctx, db)
		if err != nil {
			return "", fmt.Errorf("read current version: %w", err)
		}
		if version == 0 {
			return "no migrations applied", nil
		}
		return fmt.Sprintf("current version: %d (%s)", version, name), nil
	}
}

func ensureMigrationTable(ctx context.Context, db migrationDB) error {
	_, err := db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version     BIGINT PRIMARY KEY,
    name        TEXT NOT NULL,
    applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`)
	return err
}

// loadMigrations pairs NNNN_name.up.sql with NNNN_name.down.sql and sorts
// the pairs by version.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	paths, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("no migration files found")
	}

	byVersion := make(map[int64]*migration)
	for _, p := range paths {
		m := migrationFile.FindStringSubmatch(p)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename: %s", p)
		}
		version, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse version in %s: %w", p, err)
		}

		body, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", p, err)
		}
		sqlText := strings.TrimSpace(string(body))
		if sqlText == "" {
			return nil, fmt.Errorf("empty migration file: %s", p)
		}

		entry, ok := byVersion[version]
		if !ok {
			entry = &migration{Version: version, Name: m[2]}
			byVersion[version] = entry
		} else if entry.Name != m[2] {
			return nil, fmt.Errorf("conflicting names for version %d: %s vs %s", version, entry.Name, m[2])
		}

		target := &entry.UpSQL
		if m[3] == "down" {
			target = &entry.DownSQL
		}
		if *target != "" {
			return nil, fmt.Errorf("duplicate %s migration for version %d", m[3], version)
		}
		*target = sqlText
	}

	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpSQL == "" || m.DownSQL == "" {
			return nil, fmt.Errorf("migration version %d must include both up and down files", m.Version)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func appliedVersions(ctx context.Context, db migrationDB) (map[int64]struct{}, error) {
	rows, err := db.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, err
	}
	applied := make(map[int64]struct{}, len(versions))
	for _, v := range versions {
		applied[v] = struct{}{}
	}
	return applied, nil
}

// inTx runs stmt then bookkeeping in one transaction.
func inTx(ctx context.Context, db migrationDB, stmt, bookkeeping string, args ...any) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, stmt); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, bookkeeping, args...); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func applyUp(ctx context.Context, db migrationDB, migrations []migration) (int, error) {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range migrations {
		if _, ok := applied[m.Version]; ok {
			continue
		}
		err := inTx(ctx, db, m.UpSQL,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name)
		if err != nil {
			return count, fmt.Errorf("version %d up failed: %w", m.Version, err)
		}
		log.Printf("applied %04d_%s", m.Version, m.Name)
		count++
	}
	return count, nil
}

func applyDown(ctx context.Context, db migrationDB, migrations []migration, steps int) (int, error) {
	if steps <= 0 {
		return 0, fmt.Errorf("steps must be > 0")
	}

	byVersion := make(map[int64]migration, len(migrations))
	for _, m := range migrations {
		byVersion[m.Version] = m
	}

	rows, err := db.Query(ctx, `SELECT version FROM schema_migrations ORDER BY version DESC LIMIT $1`, steps)
	if err != nil {
		return 0, err
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, err
	}

	count := 0
	for _, version := range versions {
		m, ok := byVersion[version]
		if !ok {
			return count, fmt.Errorf("cannot find migration source for applied version %d", version)
		}
		err := inTx(ctx, db, m.DownSQL, `DELETE FROM schema_migrations WHERE version = $1`, m.Version)
		if err != nil {
			return count, fmt.Errorf("version %d down failed: %w", m.Version, err)
		}
		log.Printf("rolled back %04d_%s", m.Version, m.Name)
		count++
	}
	return count, nil
}

func currentVersion(ctx context.Context, db migrationDB) (int64, string, error) {
	var version int64
	var name string
	err := db.QueryRow(ctx, `SELECT version, name FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &name)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, "", nil
	}
	if err != nil {
		return 0, "", err
	}
	return version, name, nil
}
