package service

import (
	"context"

	"github.com/strataworks/gatehouse/internal/auth/domain"
	"github.com/strataworks/gatehouse/internal/auth/store"
)

// NotificationService exposes the caller's own notifications. Every method
// is scoped to the authenticated account; there is no cross-account read.
type NotificationService struct {
	Store store.Store
}

// List returns the account's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, accountID string, unreadOnly bool) ([]domain.Notification, error) {
	return s.Store.Notifications().ListForAccount(ctx, accountID, unreadOnly)
}

// MarkRead flags one of the account's own notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, accountID string) error {
	return s.Store.Notifications().MarkRead(ctx, id, accountID)
}
