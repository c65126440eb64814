package group

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AutoGeneration configures scheduled folder provisioning for a group.
type AutoGeneration struct {
	Enabled      bool   `json:"enabled" bson:"enabled"`
	Frequency    string `json:"frequency,omitempty" bson:"frequency,omitempty"`
	NameTemplate string `json:"name_template,omitempty" bson:"name_template,omitempty"`
}

// Group is the logical directory entry behind a folder's group code.
// Folders reference groups by Code, not by id.
type Group struct {
	ID                 primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name               string              `json:"name" bson:"name"`
	Code               string              `json:"code" bson:"code"`
	Description        string              `json:"description,omitempty" bson:"description,omitempty"`
	Icon               string              `json:"icon,omitempty" bson:"icon,omitempty"`
	DefaultTheme       string              `json:"default_theme,omitempty" bson:"default_theme,omitempty"`
	DefaultPermissions []string            `json:"default_permissions" bson:"default_permissions"`
	ParentGroup        *primitive.ObjectID `json:"parent_group,omitempty" bson:"parent_group,omitempty"`
	IsActive           bool                `json:"is_active" bson:"is_active"`
	SortOrder          int                 `json:"sort_order" bson:"sort_order"`
	AutoGeneration     AutoGeneration      `json:"auto_generation" bson:"auto_generation"`
	CreatedAt          time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at" bson:"updated_at"`
}

// GroupStats pairs a group with how many folders carry its code.
type GroupStats struct {
	Group       `json:",inline"`
	FolderCount int64 `json:"folder_count"`
}

type CreateGroupRequest struct {
	Name               string          `json:"name" validate:"required"`
	Code               string          `json:"code" validate:"required"`
	Description        string          `json:"description"`
	Icon               string          `json:"icon"`
	DefaultTheme       string          `json:"default_theme"`
	DefaultPermissions []string        `json:"default_permissions"`
	ParentGroup        string          `json:"parent_group"`
	SortOrder          *int            `json:"sort_order,omitempty"`
	AutoGeneration     *AutoGeneration `json:"auto_generation,omitempty"`
}

type UpdateGroupRequest struct {
	Name               *string         `json:"name,omitempty"`
	Description        *string         `json:"description,omitempty"`
	Icon               *string         `json:"icon,omitempty"`
	DefaultTheme       *string         `json:"default_theme,omitempty"`
	DefaultPermissions *[]string       `json:"default_permissions,omitempty"`
	IsActive           *bool           `json:"is_active,omitempty"`
	SortOrder          *int            `json:"sort_order,omitempty"`
	AutoGeneration     *AutoGeneration `json:"auto_generation,omitempty"`
}
