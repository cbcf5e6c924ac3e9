package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/strataworks/gatehouse/internal/auth/service"
	"github.com/strataworks/gatehouse/pkg/authsdk"
	"github.com/strataworks/gatehouse/pkg/httpx"
	"github.com/strataworks/gatehouse/pkg/slogx"
)

// RefreshHandler serves POST /auth/refresh. The refresh token comes from
// the refresh cookie when present, otherwise from the JSON body; the cookie
// wins for the same reason the access cookie wins at the guard.
type RefreshHandler struct {
	TokenService  *service.TokenService
	SecureCookies bool
}

// ServeHTTP godoc
//
//	@Summary		Refresh token pair
//	@Description	Rotates the refresh token and issues a new access/refresh pair. The presented refresh token is spent
//	@Description	whether or not the call succeeds.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	false	"Refresh token (omitted when the cookie is used)"
//	@Success		200		{object}	authsdk.LoginResponse
//	@Failure		401		{object}	authsdk.ErrorResponse
//	@Router			/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	refreshToken := ""
	if c, err := r.Cookie(httpx.RefreshTokenCookie); err == nil && c.Value != "" {
		refreshToken = c.Value
	} else {
		var req authsdk.RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.MsgAuthRequired)
		return
	}

	pair, ident, err := h.TokenService.RefreshPair(r.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			clearAuthCookies(w, h.SecureCookies)
			httpx.WriteError(w, http.StatusUnauthorized, httpx.MsgInvalidToken)
			return
		}
		log.Error("refresh failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Carry the rotated token's own remaining life into the cookie.
	refreshTTL := h.TokenService.RefreshTTL
	if claims, err := h.TokenService.Refresh.Verify(pair.RefreshToken); err == nil {
		refreshTTL = time.Until(claims.ExpiresAt.Time)
	}
	setAuthCookies(w, pair, int(refreshTTL.Seconds()), h.SecureCookies)

	httpx.WriteJSON(w, http.StatusOK, loginResponse(pair, ident))
}
