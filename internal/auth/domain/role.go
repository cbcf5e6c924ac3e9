package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the closed set of principal roles. Keep this a parse-validated
// type rather than loose string comparisons so adding a role later is one
// constant and one parse case.
type Role string

const (
	// RoleSuperAdmin is the platform operator. Not scoped to a society.
	RoleSuperAdmin Role = "SUPER_ADMIN"

	// RoleClient is a society account holder, scoped by SocietyID.
	RoleClient Role = "CLIENT"
)

// ErrUnknownRole reports a role string outside the closed set.
var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole validates a role string against the closed set. Only values
// returned from here may ever end up inside a signed token.
func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(s)) {
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	case RoleClient:
		return RoleClient, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// String returns the wire form of the role.
func (r Role) String() string { return string(r) }

// Label returns the human form used in user-facing messages,
// e.g. "Super admin" / "Client".
func (r Role) Label() string {
	switch r {
	case RoleSuperAdmin:
		return "Super admin"
	case RoleClient:
		return "Client"
	default:
		return string(r)
	}
}
