package role

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role groups permissions under a unique name. The reserved "s-admin" role
// bypasses permission checks entirely.
type Role struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Permissions []primitive.ObjectID `json:"permissions" bson:"permissions"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at" bson:"updated_at"`
}

// RoleDetail is a role with its permission references resolved to keys.
type RoleDetail struct {
	Role           `json:",inline"`
	PermissionKeys []string `json:"permission_keys"`
}

type CreateRoleRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type UpdateRoleRequest struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Permissions *[]string `json:"permissions,omitempty"`
}
