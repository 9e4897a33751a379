package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

type execRecorder struct {
	statements []string
	failOn     string
	err        error
}

func (r *execRecorder) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.statements = append(r.statements, sql)
	if r.failOn != "" && strings.Contains(sql, r.failOn) {
		return pgconn.CommandTag{}, r.err
	}
	return pgconn.CommandTag{}, nil
}

func TestMigrateCreatesRemittanceSchema(t *testing.T) {
	rec := &execRecorder{}
	if err := Migrate(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := strings.Join(rec.statements, "\n")
	for _, table := range []string{"daily_rates", "provider_configs", "alerts", "ssh_users"} {
		if !strings.Contains(joined, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Fatalf("expected %s table in migration, got:\n%s", table, joined)
		}
	}
	if !strings.Contains(joined, "default_amount_aud") {
		t.Fatalf("expected per-user transfer default on ssh_users, got:\n%s", joined)
	}
}

func TestMigrateStatementsAreRerunnable(t *testing.T) {
	rec := &execRecorder{}
	if err := Migrate(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, stmt := range rec.statements {
		if !strings.Contains(stmt, "IF NOT EXISTS") {
			t.Fatalf("statement is not rerunnable: %s", stmt)
		}
	}
}

func TestMigrateStopsOnFirstError(t *testing.T) {
	rec := &execRecorder{failOn: "provider_configs", err: errors.New("boom")}
	if err := Migrate(context.Background(), rec); err == nil {
		t.Fatal("expected error from failing statement")
	}
	joined := strings.Join(rec.statements, "\n")
	if !strings.Contains(joined, "daily_rates") {
		t.Fatal("expected statements before the failure to run")
	}
	if strings.Contains(joined, "CREATE TABLE IF NOT EXISTS alerts") {
		t.Fatal("expected migration to stop at the failing statement")
	}
}

func TestInitPostgresSkipsWithoutDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	InitPostgres(context.Background())
	if Pool != nil {
		t.Fatal("expected no pool without a DSN")
	}
}
