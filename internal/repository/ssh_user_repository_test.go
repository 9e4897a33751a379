package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

func TestSSHUserFindByFingerprintReturnsUser(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	pool := &sshStubPool{
		queryRowData: []any{
			int64(1), "alice", "Alice", "ssh-ed25519 AAAA...", "ssh-ed25519",
			"SHA256:abc123", 3000.0, true, (*time.Time)(nil), now, now,
		},
	}
	repo := NewSSHUserRepository(pool, trace.NewNoopTracerProvider().Tracer("test"))

	user, err := repo.FindByFingerprint(context.Background(), "SHA256:abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID != 1 {
		t.Fatalf("expected ID 1, got %d", user.ID)
	}
	if user.Username != "alice" {
		t.Fatalf("expected username alice, got %s", user.Username)
	}
	if user.Fingerprint != "SHA256:abc123" {
		t.Fatalf("expected fingerprint SHA256:abc123, got %s", user.Fingerprint)
	}
	if user.DefaultAmountAUD != 3000 {
		t.Fatalf("expected default amount 3000, got %v", user.DefaultAmountAUD)
	}
}

func TestSSHUserFindByFingerprintNotFound(t *testing.T) {
	pool := &sshStubPool{queryRowErr: pgx.ErrNoRows}
	repo := NewSSHUserRepository(pool, trace.NewNoopTracerProvider().Tracer("test"))

	user, err := repo.FindByFingerprint(context.Background(), "SHA256:unknown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
}

func TestSSHUserFindByFingerprintOnlyActive(t *testing.T) {
	pool := &sshStubPool{queryRowErr: pgx.ErrNoRows}
	repo := NewSSHUserRepository(pool, trace.NewNoopTracerProvider().Tracer("test"))

	if _, err := repo.FindByFingerprint(context.Background(), "SHA256:revoked"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(pool.lastQueryRowSQL, "is_active = TRUE") {
		t.Fatalf("expected lookup filtered to active accounts, got %q", pool.lastQueryRowSQL)
	}
}

func TestSSHUserTouchLoginStampsRow(t *testing.T) {
	pool := &sshStubPool{}
	repo := NewSSHUserRepository(pool, trace.NewNoopTracerProvider().Tracer("test"))

	if err := repo.TouchLogin(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool.execCount != 1 {
		t.Fatalf("expected 1 exec, got %d", pool.execCount)
	}
	if !strings.Contains(pool.lastExecSQL, "last_login_at = NOW()") {
		t.Fatalf("expected last-login stamp, got %q", pool.lastExecSQL)
	}
}

// --- stubs ---

type sshStubPool struct {
	execCount       int
	lastExecSQL     string
	lastQueryRowSQL string
	queryRowData    []any
	queryRowErr     error
}

func (s *sshStubPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.execCount++
	s.lastExecSQL = sql
	return pgconn.CommandTag{}, nil
}

func (s *sshStubPool) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return &sshStubBatchResults{}
}

func (s *sshStubPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("unexpected Query call")
}

func (s *sshStubPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	s.lastQueryRowSQL = sql
	return &sshStubRow{data: s.queryRowData, err: s.queryRowErr}
}

type sshStubBatchResults struct{}

func (sshStubBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, nil }
func (sshStubBatchResults) Query() (pgx.Rows, error)         { return nil, nil }
func (sshStubBatchResults) QueryRow() pgx.Row                { return &sshStubRow{} }
func (sshStubBatchResults) Close() error                     { return nil }

type sshStubRow struct {
	data []any
	err  error
}

func (r *sshStubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if r.data == nil {
		return pgx.ErrNoRows
	}
	for i, d := range dest {
		switch ptr := d.(type) {
		case *int64:
			*ptr = r.data[i].(int64)
		case *float64:
			*ptr = r.data[i].(float64)
		case *string:
			*ptr = r.data[i].(string)
		case *bool:
			*ptr = r.data[i].(bool)
		case **time.Time:
			if r.data[i] == nil || r.data[i] == (*time.Time)(nil) {
				*ptr = nil
			} else {
				v := r.data[i].(time.Time)
				*ptr = &v
			}
		case *time.Time:
			*ptr = r.data[i].(time.Time)
		default:
			return fmt.Errorf("unsupported dest type %T", d)
		}
	}
	return nil
}
