package http

import (
	"net/http"

	"github.com/strataworks/gatehouse/internal/auth/domain"
	"github.com/strataworks/gatehouse/pkg/httpx"
)

// refreshCookiePath scopes the refresh cookie to the auth endpoints so the
// long-lived token never rides along on ordinary API calls.
const refreshCookiePath = "/auth"

// setAuthCookies installs the token pair as HttpOnly cookies. SameSite=Lax
// keeps top-level navigations working while blocking cross-site POSTs.
func setAuthCookies(w http.ResponseWriter, pair *domain.TokenPair, refreshTTL int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(pair.ExpiresIn.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     refreshCookiePath,
		MaxAge:   refreshTTL,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookies expires both cookies. Always safe to call, even when the
// request carried no cookies at all.
func clearAuthCookies(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.RefreshTokenCookie,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
