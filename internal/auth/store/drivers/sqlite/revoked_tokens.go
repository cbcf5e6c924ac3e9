package sqlite

import (
	"context"
	"database/sql"
	"time"
)

type revokedTokensRepo struct {
	db *sql.DB
}

func (r *revokedTokensRepo) Revoke(ctx context.Context, fingerprint string, expiresAt time.Time) error {
	// Revoking twice is a no-op, not an error: logout and rotation can
	// race on the same token.
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO revoked_tokens (fingerprint, expires_at) VALUES (?, ?)
		 ON CONFLICT (fingerprint) DO NOTHING`,
		fingerprint, expiresAt.UTC())
	return err
}

func (r *revokedTokensRepo) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM revoked_tokens WHERE fingerprint = ? AND expires_at > ?`,
		fingerprint, time.Now().UTC()).Scan(&n)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}
	return n > 0, nil
}

func (r *revokedTokensRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
