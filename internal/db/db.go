package db

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

// Execer is the slice of pgxpool.Pool the migrator needs. Tests
// substitute a statement recorder.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func InitPostgres(ctx context.Context) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Println("DATABASE_URL not set, skipping Postgres connection")
		return
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("failed to connect to Postgres: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("failed to ping Postgres: %v", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	Pool = pool
	log.Println("Connected to Postgres")
}

// Migrate creates the schema on first access. Every statement is
// idempotent, so reruns on startup are safe.
func Migrate(ctx context.Context, pool Execer) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS daily_rates (
			date TEXT PRIMARY KEY,
			mid_market DOUBLE PRECISION NOT NULL,
			best_rate DOUBLE PRECISION NOT NULL,
			source TEXT NOT NULL DEFAULT 'frankfurter',
			fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_rates_date ON daily_rates(date DESC)`,
		`CREATE TABLE IF NOT EXISTS provider_configs (
			platform_id TEXT PRIMARY KEY,
			margin_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
			base_fee DOUBLE PRECISION NOT NULL DEFAULT 0,
			fee_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
			promo_margin_pct DOUBLE PRECISION,
			promo_cap DOUBLE PRECISION,
			last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id SERIAL PRIMARY KEY,
			email TEXT NOT NULL,
			target_rate DOUBLE PRECISION NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			triggered_at TIMESTAMPTZ,
			trigger_rate DOUBLE PRECISION
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_active ON alerts(is_active, target_rate)`,
		`CREATE TABLE IF NOT EXISTS ssh_users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL DEFAULT '',
			public_key TEXT NOT NULL,
			key_type TEXT NOT NULL,
			fingerprint TEXT NOT NULL UNIQUE,
			default_amount_aud DOUBLE PRECISION NOT NULL DEFAULT 2000,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_login_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
