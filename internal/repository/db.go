package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialects the store can speak.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

type Config struct {
	DSN             string
	MaxConns        int32
	MaxConnLifetime time.Duration
	DialTimeout     time.Duration
}

// DB is a *sql.DB that remembers its dialect and, for Postgres, the pgx pool behind it.
type DB struct {
	*sql.DB
	Dialect string
	pool    *pgxpool.Pool
}

// Open connects to Postgres for postgres:// DSNs and to a SQLite file otherwise,
// then makes sure the schema exists.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}

	var (
		db  *DB
		err error
	)
	if isPostgresDSN(cfg.DSN) {
		logger.Info("connecting to database", "dialect", DialectPostgres)
		db, err = openPostgres(ctx, cfg)
	} else {
		logger.Info("opening database", "dialect", DialectSQLite, "path", cfg.DSN)
		db, err = openSQLite(cfg)
	}
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := db.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	logger.Info("successfully connected to database", "dialect", db.Dialect)
	return db, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func openPostgres(ctx context.Context, cfg Config) (*DB, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "quotation-engine"

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}
	return &DB{DB: stdlib.OpenDBFromPool(pool), Dialect: DialectPostgres, pool: pool}, nil
}

func openSQLite(cfg Config) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer keeps SQLite from returning SQLITE_BUSY under the daemon
	sqlDB.SetMaxOpenConns(1)
	if cfg.MaxConnLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.MaxConnLifetime)
	}
	return &DB{DB: sqlDB, Dialect: DialectSQLite}, nil
}

// Close closes the database connections gracefully
func (db *DB) Close() error {
	err := db.DB.Close()
	if db.pool != nil {
		db.pool.Close()
	}
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS quotations (
	id              TEXT PRIMARY KEY,
	document_path   TEXT NOT NULL,
	cedant          TEXT NOT NULL,
	broker          TEXT NOT NULL,
	period_of_cover TEXT NOT NULL,
	gross_fees      TEXT NOT NULL,
	amount          TEXT NOT NULL,
	status          TEXT NOT NULL,
	error_message   TEXT,
	created_at      TEXT NOT NULL
)`

func (db *DB) ensureSchema(ctx context.Context) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

// rebind rewrites ? placeholders to $n for Postgres.
func (db *DB) rebind(query string) string {
	if db.Dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
