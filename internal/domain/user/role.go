package user

import (
	"fmt"
	"strings"
)

// Role is closed over RoleStudent and RoleTeacher; ParseRole rejects anything else.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleTeacher:
		return RoleTeacher, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

func (r Role) IsTeacher() bool { return r == RoleTeacher }

func (r Role) String() string { return string(r) }
