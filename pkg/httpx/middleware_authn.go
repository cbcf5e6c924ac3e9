package httpx

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/strataworks/gatehouse/pkg/jwtx"
	"github.com/strataworks/gatehouse/pkg/slogx"
)

// Client-facing failure messages. The specific verification failure kind is
// logged server-side, never returned.
const (
	MsgAuthRequired = "Authentication required"
	MsgInvalidToken = "Invalid or expired token"
	MsgAccessDenied = "Access denied"
)

// TokenVerifier validates a compact token and returns its claims. Satisfied
// by *jwtx.Codec.
type TokenVerifier interface {
	Verify(token string) (jwtx.Claims, error)
}

// AuthnMiddleware is the authentication half of the access guard. It
// extracts the access token (cookie first, bearer header as fallback),
// verifies it, and binds the resulting identity to the request context.
// Failures are 401 JSON; role enforcement is a separate middleware.
func AuthnMiddleware(v TokenVerifier) Middleware {
	return authn(v, func(w http.ResponseWriter, r *http.Request, msg string) {
		WriteError(w, http.StatusUnauthorized, msg)
	})
}

// AuthnWithReject lets a route supply its own failure writer while keeping
// token extraction and verification identical to AuthnMiddleware.
func AuthnWithReject(v TokenVerifier, reject func(http.ResponseWriter, *http.Request, string)) Middleware {
	return authn(v, reject)
}

// AuthnRedirect is the page-route variant: an unauthenticated browser is
// sent to the login page with the original destination preserved in a
// redirect query parameter.
func AuthnRedirect(v TokenVerifier, loginPath string) Middleware {
	return authn(v, func(w http.ResponseWriter, r *http.Request, _ string) {
		target := loginPath + "?redirect=" + url.QueryEscape(r.URL.RequestURI())
		http.Redirect(w, r, target, http.StatusFound)
	})
}

func authn(v TokenVerifier, reject func(http.ResponseWriter, *http.Request, string)) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			raw, source := extractToken(r)
			if raw == "" {
				guardDenials.WithLabelValues("missing_token").Inc()
				reject(w, r, MsgAuthRequired)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				// Log the precise kind; the client only learns 401.
				log.Warn("access token rejected", "source", source, "err", err)
				guardDenials.WithLabelValues("invalid_token").Inc()
				reject(w, r, MsgInvalidToken)
				return
			}

			identity := Identity{
				UserID:   claims.Subject,
				Email:    claims.Email,
				Role:     claims.Role,
				TenantID: claims.TenantID,
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// extractToken consults exactly one transport: if the access cookie is
// present it wins, regardless of any Authorization header, keeping the
// decision deterministic.
func extractToken(r *http.Request) (token, source string) {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value, "cookie"
	}

	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer")), "bearer"
	}

	return "", ""
}
