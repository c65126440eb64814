package securityrequest

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Security request statuses.
const (
	StatusPendingReview = "Pending Review"
	StatusApproved      = "Approved"
	StatusRejected      = "Rejected"
	StatusInProgress    = "In Progress"
	StatusCompleted     = "Completed"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPendingReview, StatusApproved, StatusRejected, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// RequestorInfo identifies the employee the request is filed for. The
// current ministry also drives listing visibility for ministry-scoped
// reviewers.
type RequestorInfo struct {
	FirstName        string `json:"first_name" bson:"first_name" validate:"required"`
	LastName         string `json:"last_name" bson:"last_name" validate:"required"`
	ContactNumber    string `json:"contact_number" bson:"contact_number" validate:"required"`
	EmployeeID       string `json:"employee_id" bson:"employee_id" validate:"required"`
	CurrentMinistry  string `json:"current_ministry" bson:"current_ministry" validate:"required"`
	PreviousMinistry string `json:"previous_ministry,omitempty" bson:"previous_ministry,omitempty"`
	Position         string `json:"position,omitempty" bson:"position,omitempty"`
	ExistingEmail    string `json:"existing_email,omitempty" bson:"existing_email,omitempty" validate:"omitempty,email"`
}

type EmailSecurity struct {
	RequestedEmail string   `json:"requested_email,omitempty" bson:"requested_email,omitempty" validate:"omitempty,email"`
	ExistingEmail  string   `json:"existing_email,omitempty" bson:"existing_email,omitempty" validate:"omitempty,email"`
	CreateAccount  bool     `json:"create_account,omitempty" bson:"create_account,omitempty"`
	ResetPassword  bool     `json:"reset_password,omitempty" bson:"reset_password,omitempty"`
	UnlockAccount  bool     `json:"unlock_account,omitempty" bson:"unlock_account,omitempty"`
	CloseAccount   bool     `json:"close_account,omitempty" bson:"close_account,omitempty"`
	RequestAlias   string   `json:"request_alias,omitempty" bson:"request_alias,omitempty" validate:"omitempty,email"`
	ForwardFrom    string   `json:"forward_from,omitempty" bson:"forward_from,omitempty" validate:"omitempty,email"`
	ForwardTo      string   `json:"forward_to,omitempty" bson:"forward_to,omitempty" validate:"omitempty,email"`
	AddToLists     []string `json:"add_to_lists,omitempty" bson:"add_to_lists,omitempty"`
	RemoveFromList []string `json:"remove_from_lists,omitempty" bson:"remove_from_lists,omitempty"`
}

type NetworkSecurity struct {
	Username          string `json:"username,omitempty" bson:"username,omitempty"`
	RequestAccess     string `json:"request_access,omitempty" bson:"request_access,omitempty"`
	ChangePermissions string `json:"change_permissions,omitempty" bson:"change_permissions,omitempty"`
	SharedDriveAccess string `json:"shared_drive_access,omitempty" bson:"shared_drive_access,omitempty"`
	RemoveAccess      string `json:"remove_access,omitempty" bson:"remove_access,omitempty"`
}

type CloudSuiteSecurity struct {
	RequestedRoles    []string `json:"requested_roles,omitempty" bson:"requested_roles,omitempty"`
	ApproverGroup     string   `json:"approver_group,omitempty" bson:"approver_group,omitempty"`
	ProcessLevel      string   `json:"process_level,omitempty" bson:"process_level,omitempty"`
	UserWithSameRole  string   `json:"user_with_same_role,omitempty" bson:"user_with_same_role,omitempty"`
	ModifyPermissions string   `json:"modify_permissions,omitempty" bson:"modify_permissions,omitempty"`
	RevokeAccess      string   `json:"revoke_access,omitempty" bson:"revoke_access,omitempty"`
}

type VPNSecurity struct {
	RequestAccess   string `json:"request_access,omitempty" bson:"request_access,omitempty"`
	ResetPassword   string `json:"reset_password,omitempty" bson:"reset_password,omitempty"`
	ConfigureClient string `json:"configure_client,omitempty" bson:"configure_client,omitempty"`
}

// SelectedOption is a denormalized summary line of what the form asked
// for, kept for easier filtering and display.
type SelectedOption struct {
	Label    string `json:"label" bson:"label"`
	Category string `json:"category" bson:"category"`
}

// SecurityRequest is an IT access request filed through the portal:
// email, network, CloudSuite and VPN sections, moved through a simple
// review status.
type SecurityRequest struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Status          string              `json:"status" bson:"status"`
	SubmittedBy     *primitive.ObjectID `json:"submitted_by,omitempty" bson:"submitted_by,omitempty"`
	SubmittedByName string              `json:"submitted_by_name" bson:"submitted_by_name"`
	Requestor       RequestorInfo       `json:"requestor" bson:"requestor"`
	Email           EmailSecurity       `json:"email,omitempty" bson:"email,omitempty"`
	Network         NetworkSecurity     `json:"network,omitempty" bson:"network,omitempty"`
	CloudSuite      CloudSuiteSecurity  `json:"cloud_suite,omitempty" bson:"cloud_suite,omitempty"`
	VPN             VPNSecurity         `json:"vpn,omitempty" bson:"vpn,omitempty"`
	SelectedOptions []SelectedOption    `json:"selected_options,omitempty" bson:"selected_options,omitempty"`
	CreatedAt       time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" bson:"updated_at"`
}

type SubmitSecurityRequestRequest struct {
	Requestor       RequestorInfo      `json:"requestor" validate:"required"`
	Email           EmailSecurity      `json:"email"`
	Network         NetworkSecurity    `json:"network"`
	CloudSuite      CloudSuiteSecurity `json:"cloud_suite"`
	VPN             VPNSecurity        `json:"vpn"`
	SelectedOptions []SelectedOption   `json:"selected_options"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
