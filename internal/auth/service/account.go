package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/strataworks/gatehouse/internal/auth/domain"
	"github.com/strataworks/gatehouse/internal/auth/metrics"
	"github.com/strataworks/gatehouse/internal/auth/store"
	"github.com/strataworks/gatehouse/pkg/cryptox"
	"github.com/strataworks/gatehouse/pkg/idx"
	"github.com/strataworks/gatehouse/pkg/slogx"
)

// AccountService handles account administration: creation, deactivation and
// bulk session revocation. All of its operations sit behind the SUPER_ADMIN
// guard except Bootstrap, which runs once at startup.
type AccountService struct {
	Store store.Store
}

// CreateParams carries the fields for a new account. ID and password hash
// are derived here, never supplied by the caller.
type CreateParams struct {
	Email     string
	Password  string
	Role      domain.Role
	SocietyID string
}

// Create inserts a new active account with token version 1.
func (s *AccountService) Create(ctx context.Context, p CreateParams) (domain.AccountSnapshot, error) {
	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.AccountSnapshot{}, err
	}

	acct := domain.AccountSnapshot{
		ID:           idx.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(p.Email)),
		Role:         p.Role,
		SocietyID:    p.SocietyID,
		PasswordHash: hash,
		TokenVersion: 1,
		IsActive:     true,
	}
	if err := s.Store.Accounts().CreateAccount(ctx, acct); err != nil {
		return domain.AccountSnapshot{}, err
	}

	slogx.FromContext(ctx).Info("account created",
		slog.String("account_id", acct.ID),
		slog.String("role", acct.Role.String()),
	)
	return acct, nil
}

// Get returns one account by id.
func (s *AccountService) Get(ctx context.Context, id string) (domain.AccountSnapshot, error) {
	return s.Store.Accounts().GetAccountByID(ctx, id)
}

// SetActive flips the account's active flag. Deactivation also bumps the
// token version so outstanding refresh tokens die with the account; access
// tokens run out within their own short TTL.
func (s *AccountService) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.Store.Accounts().SetActive(ctx, id, active); err != nil {
		return err
	}
	if !active {
		if err := s.Store.Accounts().BumpTokenVersion(ctx, id); err != nil {
			return err
		}
	}
	slogx.FromContext(ctx).Info("account active flag changed",
		slog.String("account_id", id),
		slog.Bool("active", active),
	)
	return nil
}

// RevokeSessions signs the account out everywhere by bumping its token
// version. Existing access tokens stay valid until their TTL elapses;
// every refresh token is dead immediately.
func (s *AccountService) RevokeSessions(ctx context.Context, id string) error {
	if err := s.Store.Accounts().BumpTokenVersion(ctx, id); err != nil {
		return err
	}
	metrics.SessionsRevoked.Inc()

	err := s.Store.Notifications().Append(ctx, domain.Notification{
		ID:        idx.New().String(),
		AccountID: id,
		Kind:      domain.NotificationKindSessionsRevoked,
		Message:   "All sessions were signed out",
	})
	if err != nil {
		slogx.FromContext(ctx).Warn("notification append failed", slog.Any("error", err))
	}

	slogx.FromContext(ctx).Info("all sessions revoked", slog.String("account_id", id))
	return nil
}

// Bootstrap seeds the first SUPER_ADMIN account when the store is empty.
// If password is empty a random one is generated and logged once, the same
// way database bootstrap tools print a first-run credential.
func (s *AccountService) Bootstrap(ctx context.Context, email, password string) error {
	empty, err := s.Store.Accounts().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	generated := false
	if password == "" {
		password, err = cryptox.GeneratePassword()
		if err != nil {
			return err
		}
		generated = true
	}

	acct, err := s.Create(ctx, CreateParams{
		Email:    email,
		Password: password,
		Role:     domain.RoleSuperAdmin,
	})
	if err != nil {
		return err
	}

	l := slogx.FromContext(ctx)
	if generated {
		// Printed once on first boot only. Rotate it after signing in.
		l.Warn("bootstrap super admin created with generated password",
			slog.String("email", acct.Email),
			slog.String("password", password),
		)
	} else {
		l.Info("bootstrap super admin created", slog.String("email", acct.Email))
	}
	return nil
}
