package authdomain

import (
	"fmt"
	"strings"
)

// Role represents a user's role for authorization purposes.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole normalizes a configured role name. An empty value means RoleUser.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if r == "" {
		return RoleUser, nil
	}
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return r, nil
}
