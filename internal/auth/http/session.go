package http

import (
	"net/http"

	"github.com/strataworks/gatehouse/pkg/authsdk"
	"github.com/strataworks/gatehouse/pkg/httpx"
)

// SessionHandler serves GET /auth/check-session. Runs behind the
// authentication middleware; by the time this executes the identity is
// already verified and bound to the context.
type SessionHandler struct{}

// ServeHTTP godoc
//
//	@Summary		Check session
//	@Description	Reports whether the presented access token is still valid and returns the principal it carries.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	authsdk.SessionResponse
//	@Failure		401	{object}	authsdk.SessionResponse	"authenticated false"
//	@Security		BearerAuth
//	@Router			/auth/check-session [get].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ident, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, authsdk.SessionResponse{Authenticated: false})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionResponse{
		Authenticated: true,
		User: &authsdk.User{
			ID:        ident.UserID,
			Email:     ident.Email,
			Role:      ident.Role,
			SocietyID: ident.TenantID,
		},
	})
}

// sessionReject is the check-session failure writer: unlike the API-wide
// 401 body, this endpoint's contract is a parseable SessionResponse.
func sessionReject(w http.ResponseWriter, r *http.Request, _ string) {
	httpx.WriteJSON(w, http.StatusUnauthorized, authsdk.SessionResponse{Authenticated: false})
}
