package models

import (
	"github.com/AsonyaGh/Bina/pkg/roles"
)

// Actor is the authenticated identity threaded through every mutation. It is
// built from JWT claims per request, never from shared state.
type Actor struct {
	UserID     string
	Role       roles.Role
	LocationID string
}

// Scope returns the location id record listings should be filtered to, or
// empty for an unrestricted view.
func (a Actor) Scope() string {
	if a.Role.ScopedToLocation() {
		return a.LocationID
	}
	return ""
}
