package enum

// UserRole controls what a user may do: admins manage the catalog and
// users, kasir run the register.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleKasir UserRole = "kasir"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleKasir
}

func (r UserRole) String() string {
	return string(r)
}
