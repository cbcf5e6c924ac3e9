// Package memory is an in-memory Store used by unit tests and local
// experiments. It mirrors the sqlite driver's semantics (case-insensitive
// unique emails, account-scoped notification reads) without any I/O.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/strataworks/gatehouse/internal/auth/domain"
	"github.com/strataworks/gatehouse/internal/auth/store"
)

type Store struct {
	mu            sync.RWMutex
	accounts      map[string]domain.AccountSnapshot
	byEmail       map[string]string
	revoked       map[string]time.Time
	notifications map[string]domain.Notification
}

var _ store.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		accounts:      make(map[string]domain.AccountSnapshot),
		byEmail:       make(map[string]string),
		revoked:       make(map[string]time.Time),
		notifications: make(map[string]domain.Notification),
	}
}

func (s *Store) Accounts() store.Accounts           { return (*accountsRepo)(s) }
func (s *Store) RevokedTokens() store.RevokedTokens { return (*revokedRepo)(s) }
func (s *Store) Notifications() store.Notifications { return (*notificationsRepo)(s) }

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close() error                   { return nil }

type accountsRepo Store

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.AccountSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return domain.AccountSnapshot{}, store.ErrNotFound
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.AccountSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return domain.AccountSnapshot{}, store.ErrNotFound
	}
	return r.accounts[id], nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.AccountSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(a.Email)
	if _, exists := r.byEmail[email]; exists {
		return store.ErrAlreadyExists
	}
	if _, exists := r.accounts[a.ID]; exists {
		return store.ErrAlreadyExists
	}

	now := time.Now().UTC()
	a.Email = email
	a.CreatedAt = now
	a.UpdatedAt = now
	r.accounts[a.ID] = a
	r.byEmail[email] = a.ID
	return nil
}

func (r *accountsRepo) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return store.ErrNotFound
	}
	a.IsActive = active
	a.UpdatedAt = time.Now().UTC()
	r.accounts[id] = a
	return nil
}

func (r *accountsRepo) BumpTokenVersion(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return store.ErrNotFound
	}
	a.TokenVersion++
	a.UpdatedAt = time.Now().UTC()
	r.accounts[id] = a
	return nil
}

func (r *accountsRepo) IsEmpty(ctx context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts) == 0, nil
}

type revokedRepo Store

func (r *revokedRepo) Revoke(ctx context.Context, fingerprint string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.revoked[fingerprint]; !exists {
		r.revoked[fingerprint] = expiresAt
	}
	return nil
}

func (r *revokedRepo) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	expiresAt, ok := r.revoked[fingerprint]
	return ok && expiresAt.After(time.Now()), nil
}

func (r *revokedRepo) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for fp, expiresAt := range r.revoked {
		if !expiresAt.After(now) {
			delete(r.revoked, fp)
		}
	}
	return nil
}

type notificationsRepo Store

func (r *notificationsRepo) Append(ctx context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	r.notifications[n.ID] = n
	return nil
}

func (r *notificationsRepo) ListForAccount(ctx context.Context, accountID string, unreadOnly bool) ([]domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Notification
	for _, n := range r.notifications {
		if n.AccountID != accountID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *notificationsRepo) MarkRead(ctx context.Context, id, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || n.AccountID != accountID {
		return store.ErrNotFound
	}
	n.Read = true
	r.notifications[id] = n
	return nil
}

func (r *notificationsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, n := range r.notifications {
		if n.CreatedAt.Before(cutoff) {
			delete(r.notifications, id)
		}
	}
	return nil
}
