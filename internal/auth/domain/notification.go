package domain

import "time"

// Notification kinds emitted by the auth core.
const (
	NotificationKindLogin           = "login"
	NotificationKindSessionsRevoked = "sessions_revoked"
)

// Notification is an account-scoped event record. These used to live in a
// process-global slice; they are now owned by an injectable store so tests
// can swap in an in-memory fake.
type Notification struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
