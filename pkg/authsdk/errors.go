package authsdk

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationFailed is returned when credentials are rejected.
	ErrAuthenticationFailed = errors.New("authsdk: authentication failed")

	// ErrSessionExpired is returned when the session cannot be refreshed
	// and the caller must log in again.
	ErrSessionExpired = errors.New("authsdk: session expired")
)

// APIError carries a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("authsdk: %d %s", e.StatusCode, e.Message)
}
