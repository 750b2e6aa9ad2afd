package domain

import "github.com/google/uuid"

type Role string

const RoleAdmin Role = "admin"

// Principal is the resolved identity of the caller for one operation.
// A nil *Principal means the caller is anonymous.
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	Roles  []Role    `json:"roles,omitempty"`
}

func (p *Principal) HasRole(role Role) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p *Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}
