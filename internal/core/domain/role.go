package domain

// Role identifies which of the four marketplace audiences an identity
// belongs to. Roles are flat: there is no hierarchy and no implicit
// inheritance, so every authorization check is an explicit allow-list.
type Role string

const (
	RoleClient   Role = "CLIENT_USER"
	RolePT       Role = "PT_USER"
	RoleGymStaff Role = "GYM_STAFF"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole converts a raw role value (e.g. read back from a persisted
// snapshot) into a Role. Unrecognized values return ErrUnknownRole rather
// than falling through to a default role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RolePT, RoleGymStaff, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// Valid reports whether r is one of the four recognized roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}
