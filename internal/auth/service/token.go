package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/strataworks/gatehouse/internal/auth/domain"
	"github.com/strataworks/gatehouse/internal/auth/metrics"
	"github.com/strataworks/gatehouse/internal/auth/store"
	"github.com/strataworks/gatehouse/pkg/cryptox"
	"github.com/strataworks/gatehouse/pkg/idx"
	"github.com/strataworks/gatehouse/pkg/jwtx"
	"github.com/strataworks/gatehouse/pkg/slogx"
)

var (
	// ErrInvalidCredentials covers unknown email, wrong password and
	// deactivated accounts at login. Deliberately one error so responses
	// cannot be used to probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrRoleMismatch is returned when credentials are valid but the
	// declared role does not match the account's role.
	ErrRoleMismatch = errors.New("role_mismatch")

	// ErrInvalidRefresh covers every way a refresh token can fail to be
	// honoured: bad signature, expiry, revocation, or a stale token
	// version.
	ErrInvalidRefresh = errors.New("invalid_refresh_token")

	// ErrAccountInactive wraps ErrInvalidRefresh for the case where the
	// token itself is fine but the account is gone or deactivated. Same
	// 401 on the wire, distinct kind in logs and tests.
	ErrAccountInactive = fmt.Errorf("%w: account inactive or missing", ErrInvalidRefresh)
)

// RoleMismatchMessage is the user-facing text for a declared-role mismatch.
// The label names the role the caller would have needed.
func RoleMismatchMessage(declared domain.Role) string {
	return fmt.Sprintf("Access denied. %s privileges required.", declared.Label())
}

// TokenService issues, refreshes and revokes token pairs. Access tokens are
// verified statelessly; refresh tokens additionally consult the revocation
// list and the account record, so every rotation re-checks role, active
// status and token version.
type TokenService struct {
	Access  *jwtx.Codec // token type "access"
	Refresh *jwtx.Codec // token type "refresh"

	Store   store.Store
	Revoked store.RevokedTokens // may point at a different backend than Store

	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	RememberMeTTL time.Duration
}

// Login verifies credentials and issues a fresh token pair.
//
// declaredRole is the role the caller claims to be logging in as (the
// super-admin and client login forms post to the same endpoint). A mismatch
// with the stored role is reported separately from bad credentials because
// it is an authorization failure, not an authentication one. The zero value
// means no role was declared; the check is skipped and the pair is issued
// against the account's actual role.
func (s *TokenService) Login(ctx context.Context, email, password string, declaredRole domain.Role, rememberMe bool) (*domain.TokenPair, domain.Identity, error) {
	l := slogx.FromContext(ctx)

	acct, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash comparison anyway so unknown emails take as
			// long as wrong passwords.
			_ = cryptox.VerifyPassword(password, cryptox.DummyHash)
			metrics.Logins.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.Identity{}, ErrInvalidCredentials
		}
		return nil, domain.Identity{}, err
	}

	if err := cryptox.VerifyPassword(password, acct.PasswordHash); err != nil {
		l.Info("login password verification failed", slog.String("account_id", acct.ID))
		metrics.Logins.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.Identity{}, ErrInvalidCredentials
	}

	if !acct.IsActive {
		// Indistinguishable from bad credentials on the wire.
		l.Info("login attempt on deactivated account", slog.String("account_id", acct.ID))
		metrics.Logins.WithLabelValues("inactive").Inc()
		return nil, domain.Identity{}, ErrInvalidCredentials
	}

	if declaredRole != "" && acct.Role != declaredRole {
		l.Info("login declared role mismatch",
			slog.String("account_id", acct.ID),
			slog.String("declared", declaredRole.String()),
		)
		metrics.Logins.WithLabelValues("role_mismatch").Inc()
		return nil, domain.Identity{}, ErrRoleMismatch
	}

	pair, err := s.issuePair(acct, rememberMe)
	if err != nil {
		return nil, domain.Identity{}, err
	}

	s.appendNotification(ctx, acct.ID, domain.NotificationKindLogin, "New sign-in to your account")

	metrics.Logins.WithLabelValues("success").Inc()
	l.Info("login succeeded",
		slog.String("account_id", acct.ID),
		slog.String("role", acct.Role.String()),
	)
	return pair, acct.Identity(), nil
}

// RefreshPair rotates a refresh token: verify, consult the revocation list,
// re-read the account, compare token versions, revoke the old token and
// issue a new pair. The old refresh token is dead after this call whether
// or not the caller receives the response.
func (s *TokenService) RefreshPair(ctx context.Context, refreshToken string) (*domain.TokenPair, domain.Identity, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Refresh.Verify(refreshToken)
	if err != nil {
		l.Info("refresh token rejected", slog.String("reason", err.Error()))
		metrics.Refreshes.WithLabelValues("invalid").Inc()
		return nil, domain.Identity{}, ErrInvalidRefresh
	}

	fp := cryptox.FingerprintToken(claims.ID)
	revoked, err := s.Revoked.IsRevoked(ctx, fp)
	if err != nil {
		return nil, domain.Identity{}, err
	}
	if revoked {
		l.Warn("revoked refresh token replayed", slog.String("account_id", claims.Subject))
		metrics.Refreshes.WithLabelValues("revoked").Inc()
		return nil, domain.Identity{}, ErrInvalidRefresh
	}

	// The token only proves who the caller was when it was issued. Role,
	// active status and token version come from the account record now.
	acct, err := s.Store.Accounts().GetAccountByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.Refreshes.WithLabelValues("inactive").Inc()
			return nil, domain.Identity{}, ErrAccountInactive
		}
		return nil, domain.Identity{}, err
	}
	if !acct.IsActive {
		l.Info("refresh attempt on deactivated account", slog.String("account_id", acct.ID))
		metrics.Refreshes.WithLabelValues("inactive").Inc()
		return nil, domain.Identity{}, ErrAccountInactive
	}
	if claims.TokenVersion != acct.TokenVersion {
		l.Info("refresh token version stale",
			slog.String("account_id", acct.ID),
			slog.Int("token_version", claims.TokenVersion),
			slog.Int("current_version", acct.TokenVersion),
		)
		metrics.Refreshes.WithLabelValues("stale_version").Inc()
		return nil, domain.Identity{}, ErrInvalidRefresh
	}

	// Rotation: the old token is spent even if issuing the new pair fails.
	if err := s.Revoked.Revoke(ctx, fp, claims.ExpiresAt.Time); err != nil {
		return nil, domain.Identity{}, err
	}

	// Preserve the original session length so a remember-me session does
	// not silently shrink to the default on its first refresh.
	rememberMe := time.Until(claims.ExpiresAt.Time) > s.RefreshTTL

	pair, err := s.issuePair(acct, rememberMe)
	if err != nil {
		return nil, domain.Identity{}, err
	}

	metrics.Refreshes.WithLabelValues("success").Inc()
	return pair, acct.Identity(), nil
}

// Logout revokes the presented refresh token. Best effort: an invalid or
// already revoked token is not an error, logout always succeeds.
func (s *TokenService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	claims, err := s.Refresh.Verify(refreshToken)
	if err != nil {
		return
	}
	if err := s.Revoked.Revoke(ctx, cryptox.FingerprintToken(claims.ID), claims.ExpiresAt.Time); err != nil {
		slogx.FromContext(ctx).Warn("logout revocation failed", slog.Any("error", err))
	}
}

// Verify validates an access token, including that its signed role is one
// of the roles this service issues. It satisfies the access guard's
// TokenVerifier, so guarded routes and VerifyAccess share one path.
// Stateless: no store round trip, which is what keeps the guard cheap.
func (s *TokenService) Verify(tokenString string) (jwtx.Claims, error) {
	claims, err := s.Access.Verify(tokenString)
	if err != nil {
		return jwtx.Claims{}, err
	}
	if _, err := domain.ParseRole(claims.Role); err != nil {
		// A signed token with an unknown role means a signing bug, not a
		// client mistake. Refuse it.
		return jwtx.Claims{}, fmt.Errorf("%w: %v", jwtx.ErrMalformed, err)
	}
	return claims, nil
}

// VerifyAccess validates an access token and returns the embedded identity.
func (s *TokenService) VerifyAccess(tokenString string) (domain.Identity, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return domain.Identity{}, err
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", jwtx.ErrMalformed, err)
	}
	return domain.Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Role:      role,
		SocietyID: claims.TenantID,
	}, nil
}

func (s *TokenService) issuePair(acct domain.AccountSnapshot, rememberMe bool) (*domain.TokenPair, error) {
	accessToken, err := s.Access.Sign(
		jwtx.NewAccessClaims(acct.ID, acct.Email, acct.Role.String(), acct.SocietyID),
		s.AccessTTL,
	)
	if err != nil {
		return nil, err
	}

	refreshTTL := s.RefreshTTL
	if rememberMe {
		refreshTTL = s.RememberMeTTL
	}
	refreshToken, err := s.Refresh.Sign(
		jwtx.NewRefreshClaims(acct.ID, acct.TokenVersion),
		refreshTTL,
	)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.AccessTTL,
	}, nil
}

func (s *TokenService) appendNotification(ctx context.Context, accountID, kind, message string) {
	err := s.Store.Notifications().Append(ctx, domain.Notification{
		ID:        idx.New().String(),
		AccountID: accountID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		// Notifications are advisory; never fail the auth flow over them.
		slogx.FromContext(ctx).Warn("notification append failed", slog.Any("error", err))
	}
}
