package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants. Short-lived access tokens bound the window
// in which a demoted or deactivated account keeps its old privileges.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour

	// DefaultRememberMeTTL is the refresh lifetime when the user asked to
	// stay signed in.
	DefaultRememberMeTTL = 30 * 24 * time.Hour
)

// TokenType tags a token as access or refresh. The tag is signed into the
// claims, so an access token can never be replayed against the refresh
// endpoint and vice versa.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims are the signed token claims. Access tokens carry the full
// identity; refresh tokens carry only the subject and a token version.
type Claims struct {
	jwt.RegisteredClaims

	// TokenType is "access" or "refresh". Always present.
	TokenType TokenType `json:"typ"`

	/* Access-token identity fields */

	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`

	// TenantID is the society account scoping CLIENT access.
	TenantID string `json:"tenant_id,omitempty"`

	/* Refresh-token fields */

	// TokenVersion is compared against the account record on refresh so a
	// version bump cuts off every outstanding refresh token.
	TokenVersion int `json:"token_version,omitempty"`
}

// NewAccessClaims builds claims for a short-lived access token.
func NewAccessClaims(subject, email, role, tenantID string) Claims {
	return Claims{
		TokenType: TokenTypeAccess,
		Email:     email,
		Role:      role,
		TenantID:  tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}
}

// NewRefreshClaims builds the minimal claims for a refresh token.
func NewRefreshClaims(subject string, tokenVersion int) Claims {
	return Claims{
		TokenType:    TokenTypeRefresh,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim. The jti
// doubles as the revocation-list key for refresh tokens.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
