package models

import "testing"

func TestHasPermissionSuperAdminBypass(t *testing.T) {
	id := &Identity{RoleName: RoleSuperAdmin, Permissions: nil}

	for _, key := range []string{PermViewFolder, PermDeleteUsers, "made_up_key"} {
		if !id.HasPermission(key) {
			t.Errorf("super-admin should pass permission check for %q", key)
		}
	}
}

func TestHasPermissionMembership(t *testing.T) {
	id := &Identity{RoleName: "clerk", Permissions: []string{PermViewFolder, PermSubmitForms}}

	if !id.HasPermission(PermViewFolder) {
		t.Error("expected view_folder to be granted")
	}
	if id.HasPermission(PermDeleteUsers) {
		t.Error("expected delete_users to be denied")
	}
}

func TestHasPermissionNilIdentity(t *testing.T) {
	var id *Identity
	if id.HasPermission(PermViewFolder) {
		t.Error("nil identity must deny everything")
	}
}

func TestIsAdmin(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{RoleSuperAdmin, true},
		{RoleAdmin, true},
		{"clerk", false},
		{"", false},
	}
	for _, tc := range cases {
		id := &Identity{RoleName: tc.role}
		if got := id.IsAdmin(); got != tc.want {
			t.Errorf("IsAdmin(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	var nilID *Identity
	if got := nilID.DisplayName(); got != SystemActorName {
		t.Errorf("nil identity display name = %q, want %q", got, SystemActorName)
	}

	id := &Identity{Username: "alice", FirstName: "Alice", LastName: "Mansaray"}
	if got := id.DisplayName(); got != "Alice Mansaray" {
		t.Errorf("display name = %q, want %q", got, "Alice Mansaray")
	}

	bare := &Identity{Username: "alice"}
	if got := bare.DisplayName(); got != "alice" {
		t.Errorf("display name = %q, want %q", got, "alice")
	}
}
