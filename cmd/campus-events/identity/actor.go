// Package identity resolves who is acting on a request.
//
// Identities are issued by an external authentication service as signed
// bearer tokens; this package only verifies them and exposes the result as an
// Actor value that callers pass explicitly into the lifecycle engine.
package identity

import (
	"fmt"
	"strings"
)

type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleFaculty
	RoleStudent
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleFaculty:
		return "faculty"
	case RoleStudent:
		return "student"
	}
	return "unknown"
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "faculty":
		return RoleFaculty, nil
	case "student":
		return RoleStudent, nil
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string
	Role Role
	Name string
}

func (a Actor) Is(role Role) bool {
	return a.Role == role
}

func (a Actor) String() string {
	return a.Role.String() + ":" + a.ID
}
