package services

import "gym_club_backend/internal/models"

// RoleSet is the set of roles allowed to perform an action. An empty set
// admits any authenticated caller.
type RoleSet []models.Role

// Roles builds a RoleSet.
func Roles(roles ...models.Role) RoleSet {
	return RoleSet(roles)
}

// Contains reports whether role is in the set.
func (s RoleSet) Contains(role models.Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// AuthzResult is the outcome of a capability check.
type AuthzResult int

const (
	Allowed AuthzResult = iota
	DeniedUnauthenticated
	DeniedForbidden
)

// Authorize decides whether a caller with the given role may proceed.
// An empty caller role means no authenticated identity.
func Authorize(required RoleSet, caller models.Role) AuthzResult {
	if caller == "" {
		return DeniedUnauthenticated
	}
	if len(required) == 0 || required.Contains(caller) {
		return Allowed
	}
	return DeniedForbidden
}

// Actor is the authenticated caller as seen by the services.
type Actor struct {
	UserID int64
	Role   models.Role
}

// IsAdmin reports whether the actor holds the ADMIN role.
func (a Actor) IsAdmin() bool {
	return Authorize(Roles(models.RoleAdmin), a.Role) == Allowed
}
