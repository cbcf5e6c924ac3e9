package authsdk

import "time"

// LoginRequest is the JSON body for POST /auth/login. Role declares which
// login form the credentials came from; the server rejects a mismatch with
// the stored role.
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

// User is the principal as returned by the API.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	SocietyID string `json:"societyId,omitempty"`
}

// LoginResponse is returned by POST /auth/login and POST /auth/refresh.
// Browsers receive the same tokens as HttpOnly cookies; the body copies are
// for non-browser clients.
type LoginResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"` // seconds
}

// RefreshRequest is the optional JSON body for POST /auth/refresh. Browser
// clients omit it and rely on the refresh cookie instead.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// SessionResponse is returned by GET /auth/check-session. On 401 the body
// still parses, with Authenticated false and no user.
type SessionResponse struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// ErrorResponse is the uniform error body used across the API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateAccountRequest is the admin body for POST /v1/accounts.
type CreateAccountRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	SocietyID string `json:"societyId,omitempty"`
}

// SetActiveRequest is the admin body for POST /v1/accounts/{id}/active.
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// AccountResponse is the admin view of an account. No password hash, ever.
type AccountResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	SocietyID    string    `json:"societyId,omitempty"`
	TokenVersion int       `json:"tokenVersion"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Notification is an account-scoped event record.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// HealthChecks reports the state of each dependency on /readyz.
type HealthChecks struct {
	Database       string `json:"database"`
	RevocationList string `json:"revocationList"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
