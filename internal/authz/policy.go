// Package authz holds the authorization policy: explicit allow/deny
// decisions evaluated at the top of each domain service operation.
package authz

import (
	"github.com/google/uuid"

	"github.com/dankop/agora/internal/domain"
)

// IsSelf reports whether the principal is the user identified by targetID.
// Anonymous callers are never "self".
func IsSelf(p *domain.Principal, targetID uuid.UUID) bool {
	return p != nil && p.UserID == targetID
}

// RequireAuthenticated allows any authenticated principal.
func RequireAuthenticated(p *domain.Principal) error {
	if p == nil {
		return domain.E(domain.KindUnauthorized, "authentication required")
	}
	return nil
}

// RequireAdmin allows only principals holding the admin role.
func RequireAdmin(p *domain.Principal) error {
	if p == nil {
		return domain.E(domain.KindUnauthorized, "authentication required")
	}
	if !p.IsAdmin() {
		return domain.E(domain.KindForbidden, "admin role required")
	}
	return nil
}

// RequireAdminOrSelf allows admins and the target user. The role check
// runs first and short-circuits.
func RequireAdminOrSelf(p *domain.Principal, targetID uuid.UUID) error {
	if p == nil {
		return domain.E(domain.KindUnauthorized, "authentication required")
	}
	if p.IsAdmin() || IsSelf(p, targetID) {
		return nil
	}
	return domain.E(domain.KindForbidden, "not allowed to act on this user")
}
