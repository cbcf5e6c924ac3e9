package http

import (
	"errors"
	"net/http"

	"github.com/strataworks/gatehouse/internal/auth/domain"
	"github.com/strataworks/gatehouse/internal/auth/service"
	"github.com/strataworks/gatehouse/internal/auth/store"
	"github.com/strataworks/gatehouse/pkg/authsdk"
	"github.com/strataworks/gatehouse/pkg/httpx"
	"github.com/strataworks/gatehouse/pkg/slogx"
)

// NotificationsHandler serves the caller's own notifications. Every path is
// scoped to the authenticated identity; there is no account id parameter.
type NotificationsHandler struct {
	NotificationService *service.NotificationService
}

// HandleList godoc
//
//	@Summary	List notifications
//	@Tags		Notifications
//	@Produce	json
//	@Param		unread	query		bool	false	"Only unread notifications"
//	@Success	200		{array}		authsdk.Notification
//	@Failure	401		{object}	authsdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/notifications [get].
func (h *NotificationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.MsgAuthRequired)
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	list, err := h.NotificationService.List(r.Context(), ident.UserID, unreadOnly)
	if err != nil {
		slogx.FromContext(r.Context()).Error("notification list failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]authsdk.Notification, 0, len(list))
	for _, n := range list {
		out = append(out, sdkNotification(n))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleMarkRead godoc
//
//	@Summary	Mark notification read
//	@Tags		Notifications
//	@Produce	json
//	@Param		id	path		string	true	"Notification id"
//	@Success	200	{object}	map[string]string
//	@Failure	404	{object}	authsdk.ErrorResponse	"Not found or not yours"
//	@Security	BearerAuth
//	@Router		/v1/notifications/{id}/read [post].
func (h *NotificationsHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ident, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.MsgAuthRequired)
		return
	}

	err := h.NotificationService.MarkRead(r.Context(), r.PathValue("id"), ident.UserID)
	if err != nil {
		// Someone else's notification reads as not found, never forbidden.
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Notification not found")
			return
		}
		slogx.FromContext(r.Context()).Error("notification mark-read failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Notification marked read"})
}

func sdkNotification(n domain.Notification) authsdk.Notification {
	return authsdk.Notification{
		ID:        n.ID,
		Kind:      n.Kind,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
