package model

import (
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleCollector Role = "collector"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleCitizen:
		return RoleCitizen, true
	case RoleCollector:
		return RoleCollector, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Principal is the authenticated actor attached to a request.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) IsCollector() bool {
	return p.Role == RoleCollector
}

func (p Principal) IsCitizen() bool {
	return p.Role == RoleCitizen
}

func (p Principal) HasRole(roles ...Role) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}
