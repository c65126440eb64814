package permission

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permission is one named capability. Roles reference permissions by id;
// authorization checks compare the machine-readable Key.
type Permission struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Key         string             `json:"key" bson:"key"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

type CreatePermissionRequest struct {
	Name        string `json:"name" validate:"required"`
	Key         string `json:"key" validate:"required"`
	Description string `json:"description"`
}

type UpdatePermissionRequest struct {
	Name        *string `json:"name,omitempty"`
	Key         *string `json:"key,omitempty"`
	Description *string `json:"description,omitempty"`
}
