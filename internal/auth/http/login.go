package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/strataworks/gatehouse/internal/auth/domain"
	"github.com/strataworks/gatehouse/internal/auth/service"
	"github.com/strataworks/gatehouse/pkg/authsdk"
	"github.com/strataworks/gatehouse/pkg/httpx"
	"github.com/strataworks/gatehouse/pkg/slogx"
)

// LoginHandler serves POST /auth/login.
type LoginHandler struct {
	TokenService *service.TokenService

	// SecureCookies is false only in dev, where there is no TLS.
	SecureCookies bool
}

// ServeHTTP godoc
//
//	@Summary		Login
//	@Description	Authenticates an email/password pair, optionally checked against a declared role, and issues an access/refresh token pair.
//	@Description	Tokens are returned in the body and as HttpOnly cookies.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.LoginResponse
//	@Failure		400		{object}	authsdk.ErrorResponse
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid credentials"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Declared role mismatch"
//	@Router			/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req authsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	// The role field is optional: without it the pair is issued against
	// the account's actual role and no mismatch check applies.
	var declaredRole domain.Role
	if strings.TrimSpace(req.Role) != "" {
		role, err := domain.ParseRole(req.Role)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "Unknown role")
			return
		}
		declaredRole = role
	}

	pair, ident, err := h.TokenService.Login(r.Context(), req.Email, req.Password, declaredRole, req.RememberMe)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, service.ErrRoleMismatch):
			httpx.WriteError(w, http.StatusForbidden, service.RoleMismatchMessage(declaredRole))
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	refreshTTL := h.TokenService.RefreshTTL
	if req.RememberMe {
		refreshTTL = h.TokenService.RememberMeTTL
	}
	setAuthCookies(w, pair, int(refreshTTL.Seconds()), h.SecureCookies)

	httpx.WriteJSON(w, http.StatusOK, loginResponse(pair, ident))
}

func loginResponse(pair *domain.TokenPair, ident domain.Identity) authsdk.LoginResponse {
	return authsdk.LoginResponse{
		User:         sdkUser(ident),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	}
}

func sdkUser(ident domain.Identity) authsdk.User {
	return authsdk.User{
		ID:        ident.UserID,
		Email:     ident.Email,
		Role:      ident.Role.String(),
		SocietyID: ident.SocietyID,
	}
}
