package auth

import (
	"context"
	"errors"
	"fmt"
)

// Role is the access level granted to a signed-in user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "gestor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager
}

// ParseRole converts a role name into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

var (
	// ErrInvalidCredentials is returned when a username/password pair is not recognised.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnknownRole is returned for role names other than admin and gestor.
	ErrUnknownRole = errors.New("unknown role")

	// ErrSessionNotFound is returned for missing or expired session tokens.
	ErrSessionNotFound = errors.New("session not found")

	// ErrForbidden is returned when a principal lacks the role an action needs.
	ErrForbidden = errors.New("forbidden")
)

// Principal is an authenticated user.
type Principal struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// PrincipalResolver turns credentials into a Principal. Implementations
// return ErrInvalidCredentials when the credentials do not match.
type PrincipalResolver interface {
	Resolve(ctx context.Context, username, password string) (Principal, error)
}

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
