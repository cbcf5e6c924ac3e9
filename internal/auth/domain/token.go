package domain

import "time"

// TokenPair is the artifact returned on login and on every refresh. A pair
// is never mutated; rotation always produces a brand-new one.
type TokenPair struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresIn    time.Duration `json:"expiresIn"` // access token lifetime
}
