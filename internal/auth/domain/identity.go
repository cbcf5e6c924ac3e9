package domain

// Identity is the authenticated principal carried inside an access token
// and attached to a request after verification.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`

	// SocietyID scopes CLIENT access to one society account. Empty for
	// SUPER_ADMIN principals.
	SocietyID string `json:"societyId,omitempty"`
}
