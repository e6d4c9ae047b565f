package user

import (
	"strings"

	"github.com/trezcool/shule/core"
)

type Role string

// Roles
const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
	RoleParent  Role = "PARENT"
)

var (
	AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

	rolePriorities = map[Role]int{
		RoleAdmin:   30,
		RoleTeacher: 20,
		RoleStudent: 10,
		RoleParent:  10,
	}

	RoleNames = map[Role]string{
		RoleAdmin:   "Admin",
		RoleTeacher: "Teacher",
		RoleStudent: "Student",
		RoleParent:  "Parent",
	}
)

// ParseRole accepts any casing, e.g. "teacher".
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(core.CleanString(s)))
	if !role.Valid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

func (r Role) Valid() bool { return rolePriorities[r] > 0 }

func (r Role) Priority() int { return rolePriorities[r] }

func (r Role) Name() string { return RoleNames[r] }

// User is a demo identity; it is never persisted.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsStaff reports whether u works at the school.
func (u User) IsStaff() bool { return u.Role.Priority() >= RoleTeacher.Priority() }

// CanEnterMarks reports whether u may record exam results.
func (u User) CanEnterMarks() bool { return u.IsStaff() }
