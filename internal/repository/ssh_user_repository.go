package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

// SSHUser is a registered dashboard account, keyed by the SHA256
// fingerprint of the public key the session authenticated with.
// Registration is optional; the row carries the remittance defaults a
// personalized session starts from.
type SSHUser struct {
	ID               int64
	Username         string
	DisplayName      string
	PublicKey        string
	KeyType          string
	Fingerprint      string
	DefaultAmountAUD float64
	IsActive         bool
	LastLoginAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const sshUserColumns = `id, username, display_name, public_key, key_type, fingerprint,
        default_amount_aud, is_active, last_login_at, created_at, updated_at`

type SSHUserRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewSSHUserRepository(pool PgxPool, tracer trace.Tracer) *SSHUserRepository {
	return &SSHUserRepository{pool: pool, tracer: tracer}
}

// FindByFingerprint resolves an active account. Unknown fingerprints
// return (nil, nil) so callers can fall back to an anonymous session.
func (r *SSHUserRepository) FindByFingerprint(ctx context.Context, fingerprint string) (*SSHUser, error) {
	_, span := r.tracer.Start(ctx, "ssh-users.find-by-fingerprint")
	defer span.End()

	row := r.pool.QueryRow(ctx,
		`SELECT `+sshUserColumns+`
		 FROM ssh_users
		 WHERE fingerprint = $1 AND is_active = TRUE`,
		fingerprint,
	)
	u, err := scanSSHUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// TouchLogin stamps the row for a session that just authenticated.
func (r *SSHUserRepository) TouchLogin(ctx context.Context, userID int64) error {
	_, span := r.tracer.Start(ctx, "ssh-users.touch-login")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`UPDATE ssh_users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`,
		userID,
	)
	return err
}

func scanSSHUser(row pgx.Row) (*SSHUser, error) {
	var u SSHUser
	err := row.Scan(
		&u.ID, &u.Username, &u.DisplayName, &u.PublicKey, &u.KeyType, &u.Fingerprint,
		&u.DefaultAmountAUD, &u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
