package folder

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Folder is one node in the virtual document tree. It is addressed two
// ways at once: by ParentFolder reference and by the denormalized
// Page/ParentPath strings. Children are always found by indexed lookup,
// never by an embedded child list.
type Folder struct {
	ID                  primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name                string              `json:"name" bson:"name"`
	Subtitle            string              `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Label               string              `json:"label,omitempty" bson:"label,omitempty"`
	Page                string              `json:"page" bson:"page"`
	Group               string              `json:"group" bson:"group"`
	ChildGroup          string              `json:"child_group,omitempty" bson:"child_group,omitempty"`
	ParentFolder        *primitive.ObjectID `json:"parent_folder,omitempty" bson:"parent_folder,omitempty"`
	ParentPath          string              `json:"parent_path" bson:"parent_path"`
	RequiredPermissions []string            `json:"required_permissions" bson:"required_permissions"`
	IsActive            bool                `json:"is_active" bson:"is_active"`
	Theme               string              `json:"theme,omitempty" bson:"theme,omitempty"`
	SortOrder           int                 `json:"sort_order" bson:"sort_order"`
	CreatedBy           *primitive.ObjectID `json:"created_by,omitempty" bson:"created_by,omitempty"`
	UpdatedBy           *primitive.ObjectID `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	CreatedAt           time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at" bson:"updated_at"`
}

type CreateFolderRequest struct {
	Name                string   `json:"name" validate:"required"`
	Subtitle            string   `json:"subtitle"`
	Label               string   `json:"label"`
	Page                string   `json:"page" validate:"required"`
	Group               string   `json:"group" validate:"required"`
	ChildGroup          string   `json:"child_group"`
	ParentFolder        string   `json:"parent_folder"`
	ParentPath          string   `json:"parent_path"`
	RequiredPermissions []string `json:"required_permissions"`
	Theme               string   `json:"theme"`
	SortOrder           *int     `json:"sort_order,omitempty"`
	IsActive            *bool    `json:"is_active,omitempty"`
}

type UpdateFolderRequest struct {
	Name                *string   `json:"name,omitempty"`
	Subtitle            *string   `json:"subtitle,omitempty"`
	Label               *string   `json:"label,omitempty"`
	Page                *string   `json:"page,omitempty"`
	ChildGroup          *string   `json:"child_group,omitempty"`
	RequiredPermissions *[]string `json:"required_permissions,omitempty"`
	Theme               *string   `json:"theme,omitempty"`
	SortOrder           *int      `json:"sort_order,omitempty"`
	IsActive            *bool     `json:"is_active,omitempty"`
}

type ReorderItem struct {
	ID        string `json:"id" validate:"required"`
	SortOrder int    `json:"sort_order"`
}

type ReorderRequest struct {
	Items []ReorderItem `json:"items" validate:"required,min=1,dive"`
}

// ReorderResult reports per-item outcomes; items are applied
// independently and a failure does not roll back earlier updates.
type ReorderResult struct {
	Updated int      `json:"updated"`
	Failed  []string `json:"failed,omitempty"`
}

// GenerateResult summarizes one archive-generator invocation.
type GenerateResult struct {
	Created      []string `json:"created"`
	SkippedCount int      `json:"skipped_count"`
}
