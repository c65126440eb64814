package models

import (
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is a fully-resolved authenticated user: the account fields a
// handler needs plus the role name and the flattened permission-key set.
// It is built fresh by session resolution on every request and passed
// explicitly into services; it is never cached across requests, so role
// and permission edits take effect on the next request without re-login.
type Identity struct {
	UserID      primitive.ObjectID `json:"user_id"`
	Username    string             `json:"username"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	Ministry    string             `json:"ministry"`
	RoleName    string             `json:"role"`
	Permissions []string           `json:"permissions"`
}

// IsSuperAdmin reports whether the identity holds the reserved
// super-admin role, which bypasses every permission check.
func (id *Identity) IsSuperAdmin() bool {
	return id != nil && id.RoleName == RoleSuperAdmin
}

// HasPermission is the access decision function: true for super-admins
// unconditionally, otherwise true iff key is in the resolved permission
// set. No side effects.
func (id *Identity) HasPermission(key string) bool {
	if id == nil {
		return false
	}
	if id.IsSuperAdmin() {
		return true
	}
	return slices.Contains(id.Permissions, key)
}

// IsAdmin reports whether the identity may see records owned by other
// users (submission listing scope).
func (id *Identity) IsAdmin() bool {
	return id != nil && (id.RoleName == RoleSuperAdmin || id.RoleName == RoleAdmin)
}

// DisplayName is the name recorded on audit entries.
func (id *Identity) DisplayName() string {
	if id == nil {
		return SystemActorName
	}
	if id.FirstName != "" || id.LastName != "" {
		return strings.TrimSpace(id.FirstName + " " + id.LastName)
	}
	return id.Username
}
