package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Reserved role names.
const (
	RoleSuperAdmin = "s-admin"
	RoleAdmin      = "admin"
)

// SystemActorName labels audit entries produced by scheduled jobs.
const SystemActorName = "System Automated Job"

// SystemActorID is the placeholder actor id for system-generated events.
var SystemActorID = primitive.NilObjectID

// Permission keys. These are the stable machine-readable capability
// identifiers; the permission registry holds their display metadata.
const (
	PermViewAllForms    = "view_all_forms"
	PermSubmitForms     = "submit_forms"
	PermUploadDocuments = "upload_documents"

	PermViewAllUsers = "view_all_users"
	PermCreateUsers  = "create_users"
	PermDeleteUsers  = "delete_users"
	PermEditUsers    = "edit_users"

	PermViewRoles   = "view_roles"
	PermDefineRoles = "define_roles"
	PermDeleteRoles = "delete_roles"
	PermModifyRoles = "modify_roles"

	PermViewAllPermissions = "view_all_permissions"
	PermDefinePermissions  = "define_permissions"
	PermDeletePermissions  = "delete_permissions"
	PermModifyPermissions  = "modify_permissions"

	PermViewFolder     = "view_folder"
	PermViewAllFolders = "view_all_folders"
	PermViewArchives   = "view_archives"
	PermCreateFolders  = "create_folders"
	PermDeleteFolders  = "delete_folders"
	PermEditFolders    = "edit_folders"

	PermPayrollView        = "payroll_view"
	PermUploadPayrollPDFs  = "upload_payroll_pdfs"
	PermDeletePayrollPDFs  = "delete_payroll_pdfs"

	PermViewSystemEvents     = "view_system_events"
	PermGenerateEventReports = "generate_event_reports"

	PermViewSecurityRequests   = "view_security_requests"
	PermManageSecurityRequests = "manage_security_requests"
)

// Folder group codes.
const (
	GroupPayrollArchive = "payroll-archive"
	GroupGOSLPayroll    = "gosl-payroll"
	GroupHRM            = "hrm-public-service"
	GroupAGDFinance     = "agd-finance"
)

// Folder card themes.
const (
	ThemeBlue   = "blue"
	ThemeGreen  = "green"
	ThemeRed    = "red"
	ThemeOrange = "orange"
	ThemePurple = "purple"
	ThemeGray   = "gray"
)
