package http

import (
	"encoding/json"
	"net/http"

	"github.com/strataworks/gatehouse/internal/auth/service"
	"github.com/strataworks/gatehouse/pkg/authsdk"
	"github.com/strataworks/gatehouse/pkg/httpx"
)

// LogoutHandler serves POST /auth/logout. Always 200: logging out with an
// invalid, expired or absent token still leaves the caller logged out.
type LogoutHandler struct {
	TokenService  *service.TokenService
	SecureCookies bool
}

// ServeHTTP godoc
//
//	@Summary		Logout
//	@Description	Revokes the presented refresh token and expires both auth cookies. Idempotent; always returns 200.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	false	"Refresh token (omitted when the cookie is used)"
//	@Success		200		{object}	map[string]string
//	@Router			/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	refreshToken := ""
	if c, err := r.Cookie(httpx.RefreshTokenCookie); err == nil && c.Value != "" {
		refreshToken = c.Value
	} else {
		var req authsdk.RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	h.TokenService.Logout(r.Context(), refreshToken)

	clearAuthCookies(w, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
