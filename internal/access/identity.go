// Package access holds the role-based authorization rules and the
// verified identity that travels with each request.
package access

import (
	"context"

	"go-pos-inventory/pkg/logger"
)

// Role codes carried in the token's role claim.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Roles lists every assignable role.
var Roles = []string{RoleAdmin, RoleEmployee}

// ValidRole reports whether role is one of Roles.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Identity is the verified subject of a request.
type Identity struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// System is the identity used by background jobs.
var System = Identity{UserID: "system", Role: RoleAdmin}

type identityKey struct{}

// WithIdentity adds the verified identity to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored in ctx.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Log returns log tagged with the identity found in ctx.
func Log(ctx context.Context, log *logger.Logger) *logger.Logger {
	if id, ok := FromContext(ctx); ok {
		return log.With("user_id", id.UserID, "role", id.Role)
	}
	return log
}
