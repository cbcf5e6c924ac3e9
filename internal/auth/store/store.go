package store

import (
	"context"
	"errors"
	"time"

	"github.com/strataworks/gatehouse/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// memory) implement this. Sub-repositories keep concerns tidy and let tests
// fake one surface at a time.
type Store interface {
	Accounts() Accounts
	RevokedTokens() RevokedTokens
	Notifications() Notifications

	// Ping verifies the backing store is still reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

// Accounts is the authoritative account record surface. The token service
// re-reads from here on every refresh; tokens never substitute for it.
type Accounts interface {
	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.AccountSnapshot, error)

	// GetAccountByEmail is used during login (email is unique).
	GetAccountByEmail(ctx context.Context, email string) (domain.AccountSnapshot, error)

	// CreateAccount inserts a new account (id is provided by app via ULID).
	CreateAccount(ctx context.Context, a domain.AccountSnapshot) error

	// SetActive flips is_active and bumps updated_at. Deactivation blocks
	// all future issuance for the account.
	SetActive(ctx context.Context, id string, active bool) error

	// BumpTokenVersion increments token_version, invalidating every
	// outstanding refresh token for the account.
	BumpTokenVersion(ctx context.Context, id string) error

	// IsEmpty reports whether any account exists (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}

// RevokedTokens is the refresh-token revocation list: fingerprints of
// refresh jti values that must not be accepted again, each expiring with
// the token's own natural lifetime. Consulted on refresh only; access-token
// verification stays stateless.
type RevokedTokens interface {
	// Revoke records a fingerprint until expiresAt.
	Revoke(ctx context.Context, fingerprint string, expiresAt time.Time) error

	// IsRevoked reports whether the fingerprint is on the list.
	IsRevoked(ctx context.Context, fingerprint string) (bool, error)

	// DeleteExpired prunes entries past their expiry (housekeeping).
	DeleteExpired(ctx context.Context) error
}

// Notifications is the owned, injectable notification surface that replaces
// the old process-global list.
type Notifications interface {
	// Append stores a new notification.
	Append(ctx context.Context, n domain.Notification) error

	// ListForAccount returns the account's notifications, newest first.
	ListForAccount(ctx context.Context, accountID string, unreadOnly bool) ([]domain.Notification, error)

	// MarkRead flags one of the account's notifications as read.
	MarkRead(ctx context.Context, id, accountID string) error

	// DeleteOlderThan prunes old notifications (housekeeping).
	DeleteOlderThan(ctx context.Context, cutoff time.Time) error
}
