package domain

import "fmt"

// Role is the closed set of authorization roles. Access checks compare roles
// by exact match or set membership; there is no implied hierarchy between
// them.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCustomer  Role = "customer"
	RoleModerator Role = "moderator"
)

// AllRoles lists every role the system accepts, in no particular order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleCustomer, RoleModerator}
}

// IsValid reports whether r is one of the defined roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCustomer, RoleModerator:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a raw string into a Role, rejecting anything outside the
// closed set. Matching is exact: no case folding, no aliases.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
