package seed

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go-pdx/internal/common/models"
	"go-pdx/internal/config"
	"go-pdx/internal/features/folder"
	"go-pdx/internal/features/group"
	"go-pdx/internal/features/permission"
	"go-pdx/internal/features/role"
	"go-pdx/internal/features/securityrequest"
	"go-pdx/internal/features/submission"
	"go-pdx/internal/features/user"
)

// fallbackPassword is used only when no bootstrap password is
// configured. It is logged loudly and must be rotated immediately.
const fallbackPassword = "ChangeMe-Now-2024!"

// Seeder provisions the baseline records a fresh deployment needs: the
// permission registry, the reserved super-admin role, the standard
// folder groups and one active super-admin account. Every step is
// idempotent; existing records are left untouched.
type Seeder struct {
	Permissions      permission.PermissionRepository
	Roles            role.RoleRepository
	Users            user.UserRepository
	Groups           group.GroupRepository
	Folders          folder.FolderRepository
	Submissions      submission.SubmissionRepository
	SecurityRequests securityrequest.SecurityRequestRepository
	Config           *config.Config
	Logger           *zap.Logger
}

func NewSeeder(
	permissions permission.PermissionRepository,
	roles role.RoleRepository,
	users user.UserRepository,
	groups group.GroupRepository,
	folders folder.FolderRepository,
	submissions submission.SubmissionRepository,
	securityRequests securityrequest.SecurityRequestRepository,
	cfg *config.Config,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{
		Permissions:      permissions,
		Roles:            roles,
		Users:            users,
		Groups:           groups,
		Folders:          folders,
		Submissions:      submissions,
		SecurityRequests: securityRequests,
		Config:           cfg,
		Logger:           logger,
	}
}

// EnsureIndexes creates every collection's indexes. Safe to call on
// every startup.
func (s *Seeder) EnsureIndexes(ctx context.Context) error {
	if err := s.Permissions.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := s.Roles.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := s.Users.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := s.Groups.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := s.Folders.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := s.Submissions.EnsureIndexes(ctx); err != nil {
		return err
	}
	return s.SecurityRequests.EnsureIndexes(ctx)
}

func (s *Seeder) Run(ctx context.Context) error {
	if err := s.EnsureIndexes(ctx); err != nil {
		return err
	}

	permIDs, err := s.seedPermissions(ctx)
	if err != nil {
		return err
	}

	adminRole, err := s.seedSuperAdminRole(ctx, permIDs)
	if err != nil {
		return err
	}

	if err := s.seedGroups(ctx); err != nil {
		return err
	}

	return s.seedSuperAdminUser(ctx, adminRole)
}

type permissionDef struct {
	key  string
	name string
	desc string
}

func permissionDefs() []permissionDef {
	return []permissionDef{
		{models.PermViewAllForms, "View All Forms", "See every submission regardless of owner"},
		{models.PermSubmitForms, "Submit Forms", "Create new form submissions"},
		{models.PermUploadDocuments, "Upload Documents", "Attach documents to submissions"},

		{models.PermViewAllUsers, "View All Users", "List and inspect user accounts"},
		{models.PermCreateUsers, "Create Users", "Create new user accounts"},
		{models.PermDeleteUsers, "Delete Users", "Remove user accounts"},
		{models.PermEditUsers, "Edit Users", "Update user accounts"},

		{models.PermViewRoles, "View Roles", "List and inspect roles"},
		{models.PermDefineRoles, "Define Roles", "Create new roles"},
		{models.PermDeleteRoles, "Delete Roles", "Remove roles"},
		{models.PermModifyRoles, "Modify Roles", "Update roles and their permissions"},

		{models.PermViewAllPermissions, "View All Permissions", "List the permission registry"},
		{models.PermDefinePermissions, "Define Permissions", "Register new permissions"},
		{models.PermDeletePermissions, "Delete Permissions", "Remove permissions"},
		{models.PermModifyPermissions, "Modify Permissions", "Update permission metadata"},

		{models.PermViewFolder, "View Folder", "Baseline folder visibility"},
		{models.PermViewAllFolders, "View All Folders", "See the full folder tree"},
		{models.PermViewArchives, "View Archives", "See the payroll archive tree"},
		{models.PermCreateFolders, "Create Folders", "Create folders and groups"},
		{models.PermDeleteFolders, "Delete Folders", "Remove folders and groups"},
		{models.PermEditFolders, "Edit Folders", "Update and reorder folders"},

		{models.PermPayrollView, "View Payroll", "See payroll archive folders"},
		{models.PermUploadPayrollPDFs, "Upload Payroll PDFs", "Upload payroll documents"},
		{models.PermDeletePayrollPDFs, "Delete Payroll PDFs", "Remove payroll documents"},

		{models.PermViewSystemEvents, "View System Events", "Read the audit trail"},
		{models.PermGenerateEventReports, "Generate Event Reports", "Export audit reports"},

		{models.PermViewSecurityRequests, "View Security Requests", "Read IT security access requests"},
		{models.PermManageSecurityRequests, "Manage Security Requests", "Update and remove IT security access requests"},
	}
}

func (s *Seeder) seedPermissions(ctx context.Context) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0)
	created := 0

	for _, def := range permissionDefs() {
		existing, err := s.Permissions.FindByKey(ctx, def.key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			ids = append(ids, existing.ID)
			continue
		}

		now := time.Now().UTC()
		p := &permission.Permission{
			Name:        def.name,
			Key:         def.key,
			Description: def.desc,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Permissions.Create(ctx, p); err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
		created++
	}

	s.Logger.Info("permission registry seeded",
		zap.Int("created", created),
		zap.Int("total", len(ids)))
	return ids, nil
}

func (s *Seeder) seedSuperAdminRole(ctx context.Context, permIDs []primitive.ObjectID) (*role.Role, error) {
	existing, err := s.Roles.FindByName(ctx, models.RoleSuperAdmin)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	r := &role.Role{
		Name:        models.RoleSuperAdmin,
		Description: "Reserved super-admin role; bypasses all permission checks",
		Permissions: permIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Roles.Create(ctx, r); err != nil {
		return nil, err
	}

	s.Logger.Info("super-admin role created")
	return r, nil
}

func (s *Seeder) seedGroups(ctx context.Context) error {
	defs := []group.Group{
		{
			Name:               "GOSL Payroll",
			Code:               models.GroupGOSLPayroll,
			Description:        "Main payroll portal folders",
			DefaultTheme:       models.ThemeBlue,
			DefaultPermissions: []string{models.PermViewFolder},
			SortOrder:          1,
		},
		{
			Name:               "Payroll Archive",
			Code:               models.GroupPayrollArchive,
			Description:        "Generated year/month archive folders",
			DefaultTheme:       models.ThemeGreen,
			DefaultPermissions: []string{models.PermPayrollView},
			SortOrder:          2,
			AutoGeneration: group.AutoGeneration{
				Enabled:      true,
				Frequency:    "monthly",
				NameTemplate: "January 2006",
			},
		},
		{
			Name:               "HRM Public Service",
			Code:               models.GroupHRM,
			Description:        "Human resource management folders",
			DefaultTheme:       models.ThemePurple,
			DefaultPermissions: []string{models.PermViewFolder},
			SortOrder:          3,
		},
		{
			Name:               "AGD Finance",
			Code:               models.GroupAGDFinance,
			Description:        "Accountant General's Department folders",
			DefaultTheme:       models.ThemeOrange,
			DefaultPermissions: []string{models.PermViewFolder},
			SortOrder:          4,
		},
	}

	for i := range defs {
		existing, err := s.Groups.FindByCode(ctx, defs[i].Code)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		now := time.Now().UTC()
		defs[i].IsActive = true
		defs[i].CreatedAt = now
		defs[i].UpdatedAt = now
		if err := s.Groups.Create(ctx, &defs[i]); err != nil {
			return err
		}
		s.Logger.Info("group created", zap.String("code", defs[i].Code))
	}
	return nil
}

func (s *Seeder) seedSuperAdminUser(ctx context.Context, adminRole *role.Role) error {
	username := s.Config.BootstrapAdminUsername
	if username == "" {
		username = "admin"
	}

	existing, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	password := s.Config.BootstrapAdminPassword
	if password == "" {
		password = fallbackPassword
		s.Logger.Warn("BOOTSTRAP_ADMIN_PASSWORD is not set; seeding a TEMPORARY default password",
			zap.String("username", username),
			zap.String("temporary_password", fallbackPassword))
		s.Logger.Warn("NEVER run with the default password in production; change it immediately")
	}

	email := s.Config.BootstrapAdminEmail
	if email == "" {
		email = username + "@localhost"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	u := &user.User{
		Username:  username,
		Password:  string(hash),
		FirstName: "System",
		LastName:  "Administrator",
		Email:     email,
		Role:      adminRole.ID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return err
	}

	s.Logger.Info("super-admin user created", zap.String("username", username))
	return nil
}
