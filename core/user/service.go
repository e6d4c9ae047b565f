package user

import "github.com/pkg/errors"

var ErrInvalidRole = errors.New("invalid role")

// demo identities, one per role
var users = map[Role]User{
	RoleAdmin:   {ID: "admin1", Name: "Principal Jane", Role: RoleAdmin, Email: "admin@school.ke"},
	RoleTeacher: {ID: "t1", Name: "Mr. Kamau", Role: RoleTeacher, Email: "kamau@school.ke"},
	RoleStudent: {ID: "f1n-s1", Name: "Student One", Role: RoleStudent, Email: "student@school.ke"},
	RoleParent:  {ID: "p1", Name: "Parent One", Role: RoleParent, Email: "parent@school.ke"},
}

// Resolve returns the demo identity of role. There is no credential check:
// the identity is re-derived on every call and nothing is stored.
func Resolve(role Role) (User, error) {
	usr, ok := users[role]
	if !ok {
		return User{}, ErrInvalidRole
	}
	return usr, nil
}

// ResolveString parses role and resolves it.
func ResolveString(role string) (User, error) {
	r, err := ParseRole(role)
	if err != nil {
		return User{}, errors.Wrapf(err, "%q", role)
	}
	return Resolve(r)
}

// ByID returns the demo identity with the given id, if any.
func ByID(id string) (User, bool) {
	for _, r := range AllRoles {
		if usr := users[r]; usr.ID == id {
			return usr, true
		}
	}
	return User{}, false
}
