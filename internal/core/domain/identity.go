package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the closed set of principals the portal knows about.
type Role string

const (
	RoleClient Role = "client"
	RoleLawyer Role = "lawyer"
	RoleAdmin  Role = "admin"
)

// ParseRole maps a wire value onto the closed role set. Anything else is
// rejected with ErrUnknownRole.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleClient, RoleLawyer, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) String() string { return string(r) }

// Identity is the authenticated principal. Role never changes for the
// lifetime of a session; switching roles requires a new login.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  Role   `json:"role"`
}

// UnmarshalJSON rejects identities whose role falls outside the closed set,
// so a tampered or stale record never reaches the guard.
func (i *Identity) UnmarshalJSON(b []byte) error {
	type plain Identity
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	role, err := ParseRole(string(p.Role))
	if err != nil {
		return err
	}
	p.Role = role
	*i = Identity(p)
	return nil
}

// HasRole reports whether the identity's role is one of roles.
func (i *Identity) HasRole(roles ...Role) bool {
	if i == nil {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
