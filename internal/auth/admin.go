package auth

// AdminRole is the platform-side privilege level stored on admin_users.
// super_admin implicitly satisfies every check; admin and support only
// satisfy their own level.
type AdminRole string

const (
	RoleSuperAdmin AdminRole = "super_admin"
	RoleAdmin      AdminRole = "admin"
	RoleSupport    AdminRole = "support"
)

type AdminIdentity struct {
	ID    int64
	Email string
	Name  string
	Role  AdminRole
}

func (a AdminIdentity) HasRole(required AdminRole) bool {
	if a.Role == RoleSuperAdmin {
		return true
	}
	return a.Role == required
}

func ValidAdminRole(value string) bool {
	switch AdminRole(value) {
	case RoleSuperAdmin, RoleAdmin, RoleSupport:
		return true
	}
	return false
}
