package domain

import "time"

// AccountSnapshot is the durable account record. Role and active status are
// re-read from here on every refresh; they are never trusted from an old
// token.
type AccountSnapshot struct {
	ID           string
	Email        string
	Role         Role
	SocietyID    string
	PasswordHash string // argon2id, PHC encoded

	// TokenVersion is compared against the token_version claim of refresh
	// tokens. Bumping it invalidates every outstanding refresh token for
	// this account.
	TokenVersion int

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity derives the token-facing principal from the account record.
func (a AccountSnapshot) Identity() Identity {
	return Identity{
		UserID:    a.ID,
		Email:     a.Email,
		Role:      a.Role,
		SocietyID: a.SocietyID,
	}
}
