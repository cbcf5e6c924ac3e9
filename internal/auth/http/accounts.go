package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/strataworks/gatehouse/internal/auth/domain"
	"github.com/strataworks/gatehouse/internal/auth/service"
	"github.com/strataworks/gatehouse/internal/auth/store"
	"github.com/strataworks/gatehouse/pkg/authsdk"
	"github.com/strataworks/gatehouse/pkg/httpx"
	"github.com/strataworks/gatehouse/pkg/slogx"
)

// AccountsHandler serves the SUPER_ADMIN account administration endpoints.
type AccountsHandler struct {
	AccountService *service.AccountService
}

// HandleCreate godoc
//
//	@Summary		Create account
//	@Description	Creates a new active account. CLIENT accounts must carry a society id.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CreateAccountRequest	true	"Account details"
//	@Success		201		{object}	authsdk.AccountResponse
//	@Failure		400		{object}	authsdk.ErrorResponse
//	@Failure		409		{object}	authsdk.ErrorResponse	"Email already in use"
//	@Security		BearerAuth
//	@Router			/v1/accounts [post].
func (h *AccountsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req authsdk.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Unknown role")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if role == domain.RoleClient && strings.TrimSpace(req.SocietyID) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Client accounts require a society id")
		return
	}

	acct, err := h.AccountService.Create(r.Context(), service.CreateParams{
		Email:     req.Email,
		Password:  req.Password,
		Role:      role,
		SocietyID: strings.TrimSpace(req.SocietyID),
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			httpx.WriteError(w, http.StatusConflict, "Email already in use")
			return
		}
		log.Error("account creation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accountResponse(acct))
}

// HandleGet godoc
//
//	@Summary	Get account
//	@Tags		Accounts
//	@Produce	json
//	@Param		id	path		string	true	"Account id"
//	@Success	200	{object}	authsdk.AccountResponse
//	@Failure	404	{object}	authsdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/accounts/{id} [get].
func (h *AccountsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	acct, err := h.AccountService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Account not found")
			return
		}
		slogx.FromContext(r.Context()).Error("account lookup failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accountResponse(acct))
}

// HandleSetActive godoc
//
//	@Summary		Activate or deactivate account
//	@Description	Deactivation also revokes every outstanding refresh token for the account.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Account id"
//	@Param			request	body		authsdk.SetActiveRequest	true	"Desired active state"
//	@Success		200		{object}	authsdk.AccountResponse
//	@Failure		404		{object}	authsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/accounts/{id}/active [post].
func (h *AccountsHandler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := r.PathValue("id")
	if err := h.AccountService.SetActive(r.Context(), id, req.Active); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Account not found")
			return
		}
		slogx.FromContext(r.Context()).Error("account state change failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	acct, err := h.AccountService.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accountResponse(acct))
}

// HandleRevokeSessions godoc
//
//	@Summary		Revoke all sessions
//	@Description	Signs the account out everywhere by invalidating every outstanding refresh token.
//	@Tags			Accounts
//	@Produce		json
//	@Param			id	path		string	true	"Account id"
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	authsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/accounts/{id}/revoke-sessions [post].
func (h *AccountsHandler) HandleRevokeSessions(w http.ResponseWriter, r *http.Request) {
	if err := h.AccountService.RevokeSessions(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Account not found")
			return
		}
		slogx.FromContext(r.Context()).Error("session revocation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "All sessions revoked"})
}

func accountResponse(a domain.AccountSnapshot) authsdk.AccountResponse {
	return authsdk.AccountResponse{
		ID:           a.ID,
		Email:        a.Email,
		Role:         a.Role.String(),
		SocietyID:    a.SocietyID,
		TokenVersion: a.TokenVersion,
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
