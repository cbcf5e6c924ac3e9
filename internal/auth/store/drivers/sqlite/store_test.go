package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/strataworks/gatehouse/internal/auth/domain"
	"github.com/strataworks/gatehouse/internal/auth/store"
	"github.com/strataworks/gatehouse/internal/auth/store/drivers/sqlite"
	"github.com/strataworks/gatehouse/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "auth.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func testAccount(role domain.Role) domain.AccountSnapshot {
	return domain.AccountSnapshot{
		ID:           idx.New().String(),
		Email:        idx.New().String() + "@example.com",
		Role:         role,
		SocietyID:    "soc-001",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		TokenVersion: 1,
		IsActive:     true,
	}
}

func TestAccountsRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	acct := testAccount(domain.RoleClient)
	require.NoError(t, st.Accounts().CreateAccount(ctx, acct))

	byID, err := st.Accounts().GetAccountByID(ctx, acct.ID)
	require.NoError(t, err)
	require.Equal(t, acct.Email, byID.Email)
	require.Equal(t, domain.RoleClient, byID.Role)
	require.Equal(t, "soc-001", byID.SocietyID)
	require.Equal(t, 1, byID.TokenVersion)
	require.True(t, byID.IsActive)

	byEmail, err := st.Accounts().GetAccountByEmail(ctx, acct.Email)
	require.NoError(t, err)
	require.Equal(t, acct.ID, byEmail.ID)
}

func TestAccountsEmailIsCaseInsensitiveAndUnique(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	acct := testAccount(domain.RoleClient)
	acct.Email = "Mixed.Case@Example.com"
	require.NoError(t, st.Accounts().CreateAccount(ctx, acct))

	got, err := st.Accounts().GetAccountByEmail(ctx, "mixed.case@example.com")
	require.NoError(t, err)
	require.Equal(t, acct.ID, got.ID)

	dup := testAccount(domain.RoleClient)
	dup.Email = "MIXED.CASE@EXAMPLE.COM"
	require.ErrorIs(t, st.Accounts().CreateAccount(ctx, dup), store.ErrAlreadyExists)
}

func TestAccountsNotFound(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.Accounts().GetAccountByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, st.Accounts().SetActive(ctx, "missing", false), store.ErrNotFound)
	require.ErrorIs(t, st.Accounts().BumpTokenVersion(ctx, "missing"), store.ErrNotFound)
}

func TestAccountsSetActiveAndBumpVersion(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	acct := testAccount(domain.RoleSuperAdmin)
	require.NoError(t, st.Accounts().CreateAccount(ctx, acct))

	require.NoError(t, st.Accounts().SetActive(ctx, acct.ID, false))
	got, err := st.Accounts().GetAccountByID(ctx, acct.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	require.NoError(t, st.Accounts().BumpTokenVersion(ctx, acct.ID))
	got, err = st.Accounts().GetAccountByID(ctx, acct.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.TokenVersion)
}

func TestAccountsIsEmpty(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	empty, err := st.Accounts().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, st.Accounts().CreateAccount(ctx, testAccount(domain.RoleSuperAdmin)))

	empty, err = st.Accounts().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestRevokedTokens(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	revoked, err := st.RevokedTokens().IsRevoked(ctx, "fp-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, st.RevokedTokens().Revoke(ctx, "fp-1", time.Now().Add(time.Hour)))
	// Idempotent
	require.NoError(t, st.RevokedTokens().Revoke(ctx, "fp-1", time.Now().Add(time.Hour)))

	revoked, err = st.RevokedTokens().IsRevoked(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, revoked)

	// An entry past its expiry no longer counts, and housekeeping drops it.
	require.NoError(t, st.RevokedTokens().Revoke(ctx, "fp-old", time.Now().Add(-time.Minute)))
	revoked, err = st.RevokedTokens().IsRevoked(ctx, "fp-old")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, st.RevokedTokens().DeleteExpired(ctx))
	revoked, err = st.RevokedTokens().IsRevoked(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, revoked, "unexpired entries survive housekeeping")
}

func TestNotifications(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	acct := testAccount(domain.RoleClient)
	require.NoError(t, st.Accounts().CreateAccount(ctx, acct))

	first := domain.Notification{
		ID:        idx.New().String(),
		AccountID: acct.ID,
		Kind:      domain.NotificationKindLogin,
		Message:   "New sign-in to your account",
		CreatedAt: time.Now().UTC().Add(-time.Minute),
	}
	second := domain.Notification{
		ID:        idx.New().String(),
		AccountID: acct.ID,
		Kind:      domain.NotificationKindSessionsRevoked,
		Message:   "All sessions were signed out",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Notifications().Append(ctx, first))
	require.NoError(t, st.Notifications().Append(ctx, second))

	list, err := st.Notifications().ListForAccount(ctx, acct.ID, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID, "newest first")

	require.NoError(t, st.Notifications().MarkRead(ctx, first.ID, acct.ID))

	unread, err := st.Notifications().ListForAccount(ctx, acct.ID, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	require.Equal(t, second.ID, unread[0].ID)

	// Marking someone else's notification must not succeed.
	require.ErrorIs(t, st.Notifications().MarkRead(ctx, second.ID, "other-account"), store.ErrNotFound)
}

func TestNotificationsDeleteOlderThan(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	acct := testAccount(domain.RoleClient)
	require.NoError(t, st.Accounts().CreateAccount(ctx, acct))

	old := domain.Notification{
		ID:        idx.New().String(),
		AccountID: acct.ID,
		Kind:      domain.NotificationKindLogin,
		Message:   "old",
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	}
	fresh := domain.Notification{
		ID:        idx.New().String(),
		AccountID: acct.ID,
		Kind:      domain.NotificationKindLogin,
		Message:   "fresh",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Notifications().Append(ctx, old))
	require.NoError(t, st.Notifications().Append(ctx, fresh))

	require.NoError(t, st.Notifications().DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour)))

	list, err := st.Notifications().ListForAccount(ctx, acct.ID, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, fresh.ID, list[0].ID)
}
