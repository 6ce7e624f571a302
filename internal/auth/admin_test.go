package auth

import "testing"

func TestAdminHasRole(t *testing.T) {
	cases := []struct {
		name     string
		role     AdminRole
		required AdminRole
		expected bool
	}{
		{name: "super admin satisfies admin", role: RoleSuperAdmin, required: RoleAdmin, expected: true},
		{name: "super admin satisfies support", role: RoleSuperAdmin, required: RoleSupport, expected: true},
		{name: "super admin satisfies itself", role: RoleSuperAdmin, required: RoleSuperAdmin, expected: true},
		{name: "admin satisfies admin", role: RoleAdmin, required: RoleAdmin, expected: true},
		{name: "admin does not satisfy super admin", role: RoleAdmin, required: RoleSuperAdmin, expected: false},
		{name: "admin does not satisfy support", role: RoleAdmin, required: RoleSupport, expected: false},
		{name: "support does not satisfy admin", role: RoleSupport, required: RoleAdmin, expected: false},
		{name: "support satisfies support", role: RoleSupport, required: RoleSupport, expected: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			identity := AdminIdentity{ID: 1, Email: "a@b.c", Role: tc.role}
			if got := identity.HasRole(tc.required); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestValidAdminRole(t *testing.T) {
	for _, value := range []string{"super_admin", "admin", "support"} {
		if !ValidAdminRole(value) {
			t.Fatalf("expected %s to be valid", value)
		}
	}
	for _, value := range []string{"", "SUPER_ADMIN", "owner", "root"} {
		if ValidAdminRole(value) {
			t.Fatalf("expected %s to be invalid", value)
		}
	}
}
