package folder

import (
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/models"
	"go-pdx/internal/config"
	"go-pdx/internal/features/systemevent"
)

// mockFolderRepo is an in-memory FolderRepository that understands the
// filter shapes the service builds.
type mockFolderRepo struct {
	folders  []*Folder
	onCreate func(*Folder) error
}

func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

func (m *mockFolderRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (m *mockFolderRepo) Create(ctx context.Context, f *Folder) error {
	if m.onCreate != nil {
		if err := m.onCreate(f); err != nil {
			return err
		}
	}
	for _, existing := range m.folders {
		if existing.Page == f.Page {
			return duplicateKeyErr()
		}
		if existing.Name == f.Name && oidEq(existing.ParentFolder, f.ParentFolder) {
			return duplicateKeyErr()
		}
	}
	f.ID = primitive.NewObjectID()
	m.folders = append(m.folders, f)
	return nil
}

func oidEq(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (m *mockFolderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Folder, error) {
	for _, f := range m.folders {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, nil
}

func (m *mockFolderRepo) FindByPage(ctx context.Context, page string) (*Folder, error) {
	for _, f := range m.folders {
		if f.Page == page {
			return f, nil
		}
	}
	return nil, nil
}

func (m *mockFolderRepo) FindOne(ctx context.Context, filter bson.M) (*Folder, error) {
	for _, f := range m.folders {
		if folderMatches(f, filter) {
			return f, nil
		}
	}
	return nil, nil
}

func (m *mockFolderRepo) Find(ctx context.Context, filter bson.M) ([]Folder, error) {
	out := make([]Folder, 0)
	for _, f := range m.folders {
		if folderMatches(f, filter) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func folderMatches(f *Folder, filter bson.M) bool {
	for key, want := range filter {
		switch key {
		case "_id":
			if f.ID != want.(primitive.ObjectID) {
				return false
			}
		case "page":
			if f.Page != want.(string) {
				return false
			}
		case "group":
			if f.Group != want.(string) {
				return false
			}
		case "parent_path":
			if f.ParentPath != want.(string) {
				return false
			}
		case "is_active":
			if f.IsActive != want.(bool) {
				return false
			}
		case "required_permissions":
			keys := want.(bson.M)["$in"].([]string)
			hit := false
			for _, have := range f.RequiredPermissions {
				for _, k := range keys {
					if have == k {
						hit = true
					}
				}
			}
			if !hit {
				return false
			}
		}
	}
	return true
}

func (m *mockFolderRepo) MaxSortOrder(ctx context.Context, parentPath string) (int, error) {
	max := 0
	for _, f := range m.folders {
		if f.ParentPath == parentPath && f.SortOrder > max {
			max = f.SortOrder
		}
	}
	return max, nil
}

func (m *mockFolderRepo) SiblingExists(ctx context.Context, name string, parentFolder *primitive.ObjectID, excludeID primitive.ObjectID) (bool, error) {
	for _, f := range m.folders {
		if f.ID != excludeID && f.Name == name && oidEq(f.ParentFolder, parentFolder) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockFolderRepo) CountChildren(ctx context.Context, id primitive.ObjectID, page string) (int64, error) {
	var n int64
	for _, f := range m.folders {
		if (f.ParentFolder != nil && *f.ParentFolder == id) || f.ParentPath == page {
			n++
		}
	}
	return n, nil
}

func (m *mockFolderRepo) CountByGroup(ctx context.Context, group string) (int64, error) {
	var n int64
	for _, f := range m.folders {
		if f.Group == group {
			n++
		}
	}
	return n, nil
}

func (m *mockFolderRepo) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Folder, error) {
	for _, f := range m.folders {
		if f.ID == id {
			if v, ok := update["name"]; ok {
				f.Name = v.(string)
			}
			if v, ok := update["is_active"]; ok {
				f.IsActive = v.(bool)
			}
			if v, ok := update["sort_order"]; ok {
				f.SortOrder = v.(int)
			}
			if v, ok := update["required_permissions"]; ok {
				f.RequiredPermissions = v.([]string)
			}
			return f, nil
		}
	}
	return nil, nil
}

func (m *mockFolderRepo) UpdateSortOrder(ctx context.Context, id primitive.ObjectID, sortOrder int) error {
	for _, f := range m.folders {
		if f.ID == id {
			f.SortOrder = sortOrder
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *mockFolderRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, f := range m.folders {
		if f.ID == id {
			m.folders = append(m.folders[:i], m.folders[i+1:]...)
			return nil
		}
	}
	return nil
}

// mockEvents satisfies systemevent.SystemEventService and records the
// actions it was asked to log.
type mockEvents struct {
	actions []string
}

func (m *mockEvents) Record(ctx context.Context, actor *models.Identity, action string) {
	m.actions = append(m.actions, action)
}
func (m *mockEvents) RecordSystem(ctx context.Context, action string) {
	m.actions = append(m.actions, action)
}
func (m *mockEvents) List(ctx context.Context, page, limit int64) (*systemevent.EventPage, error) {
	return nil, nil
}
func (m *mockEvents) ExportReport(ctx context.Context) (*excelize.File, error) { return nil, nil }

func testConfig() *config.Config {
	return &config.Config{
		PortalRootPath:  "/gosl-payroll",
		ArchiveRootPath: "/payroll-archive",
	}
}

func newTestService(repo *mockFolderRepo, events *mockEvents) *FolderServiceImpl {
	return &FolderServiceImpl{Repo: repo, Events: events, Config: testConfig()}
}

func superAdmin() *models.Identity {
	return &models.Identity{UserID: primitive.NewObjectID(), Username: "root", RoleName: models.RoleSuperAdmin}
}

func clerk(perms ...string) *models.Identity {
	return &models.Identity{
		UserID:      primitive.NewObjectID(),
		Username:    "alice",
		Ministry:    "Finance",
		RoleName:    "clerk",
		Permissions: perms,
	}
}

func seedFolder(repo *mockFolderRepo, name, page, group, parentPath string, perms []string) *Folder {
	f := &Folder{
		ID:                  primitive.NewObjectID(),
		Name:                name,
		Page:                page,
		Group:               group,
		ParentPath:          parentPath,
		RequiredPermissions: perms,
		IsActive:            true,
	}
	repo.folders = append(repo.folders, f)
	return f
}

func TestListByGroupPermissionIntersection(t *testing.T) {
	repo := &mockFolderRepo{}
	svc := newTestService(repo, &mockEvents{})
	seedFolder(repo, "Finance", "/gosl-payroll/finance", "gosl-payroll", "/gosl-payroll", []string{models.PermViewFolder})

	alice := clerk(models.PermViewFolder)
	got, err := svc.ListByGroup(context.Background(), alice, models.GroupGOSLPayroll, false)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(got) != 1 || got[0].Page != "/gosl-payroll/finance" {
		t.Fatalf("expected the finance folder, got %v", got)
	}

	// After the permission is removed from the role and the session is
	// re-resolved, the same call sees nothing.
	revoked := clerk()
	got, err = svc.ListByGroup(context.Background(), revoked, models.GroupGOSLPayroll, false)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty listing after revocation, got %v", got)
	}
}

func TestListByGroupZeroPermissionShortCircuit(t *testing.T) {
	repo := &mockFolderRepo{}
	svc := newTestService(repo, &mockEvents{})
	seedFolder(repo, "Finance", "/gosl-payroll/finance", "gosl-payroll", "/gosl-payroll", []string{models.PermViewFolder})

	got, err := svc.ListByGroup(context.Background(), clerk(), models.GroupGOSLPayroll, false)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("zero-permission caller should see nothing, got %v", got)
	}
}

func TestListByGroupSuperAdminSeesUnrestricted(t *testing.T) {
	repo := &mockFolderRepo{}
	svc := newTestService(repo, &mockEvents{})
	// Empty required-permission set: visible to super-admins only.
	seedFolder(repo, "Locked", "/gosl-payroll/locked", "gosl-payroll", "/gosl-payroll", []string{})

	got, err := svc.ListByGroup(context.Background(), superAdmin(), models.GroupGOSLPayroll, false)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("super-admin should see the locked folder, got %v", got)
	}

	got, err = svc.ListByGroup(context.Background(), clerk(models.PermViewFolder), models.GroupGOSLPayroll, false)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("clerk should not see a folder with no required permissions, got %v", got)
	}
}

func TestListChildrenChildGroupConstraint(t *testing.T) {
	repo := &mockFolderRepo{}
	svc := newTestService(repo, &mockEvents{})

	parent := seedFolder(repo, "Archive", "/payroll-archive", "payroll-archive", "/", []string{models.PermPayrollView})
	parent.ChildGroup = "payroll-archive"
	seedFolder(repo, "2026", "/payroll-archive/2026", "payroll-archive", "/payroll-archive", []string{models.PermPayrollView})
	seedFolder(repo, "Stray", "/payroll-archive/stray", "other-group", "/payroll-archive", []string{models.PermPayrollView})

	got, err := svc.ListChildren(context.Background(), superAdmin(), "/payroll-archive", false)
	if err != nil {
		t.Fatalf("ListChildren: %v", err)
	}
	if len(got) != 1 || got[0].Name != "2026" {
		t.Fatalf("child-group constraint not applied, got %v", got)
	}
}

func TestGetByPathHidesInactiveFromNonAdmins(t *testing.T) {
	repo := &mockFolderRepo{}
	svc := newTestService(repo, &mockEvents{})

	f := seedFolder(repo, "Finance", "/gosl-payroll/finance", "gosl-payroll", "/gosl-payroll", []string{models.PermViewFolder})
	f.IsActive = false

	_, err := svc.GetByPath(context.Background(), clerk(models.PermViewFolder), "/gosl-payroll/finance")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("deactivated folder should read as not found for a clerk, got %v", err)
	}

	// Admins keep access to deactivated folders.
	got, err := svc.GetByPath(context.Background(), superAdmin(), "/gosl-payroll/finance")
	if err != nil {
		t.Fatalf("GetByPath as admin: %v", err)
	}
	if got.Page != "/gosl-payroll/finance" {
		t.Fatalf("unexpected folder: %+v", got)
	}
}

func TestCreateFolderDuplicatePage(t *testing.T) {
	repo := &mockFolderRepo{}
	svc := newTestService(repo, &mockEvents{})
	seedFolder(repo, "Finance", "/gosl-payroll/finance", "gosl-payroll", "/gosl-payroll", nil)

	_, err := svc.CreateFolder(context.Background(), superAdmin(), &CreateFolderRequest{
		Name:  "Other Name",
		Page:  "/gosl-payroll/finance",
		Group: "gosl-payroll",
	})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict on duplicate page, got %v", err)
	}
}

func TestCreateFolderSiblingNameConflict(t *testing.T) {
	repo := &mockFolderRepo{}
	svc := newTestService(repo, &mockEvents{})

	parent := seedFolder(repo, "Root", "/gosl-payroll", "gosl-payroll", "/", nil)
	first, err := svc.CreateFolder(context.Background(), superAdmin(), &CreateFolderRequest{
		Name:         "Reports",
		Page:         "/gosl-payroll/reports",
		Group:        "gosl-payroll",
		ParentFolder: parent.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if first.ParentPath != "/gosl-payroll" {
		t.Errorf("parent path not derived from parent, got %q", first.ParentPath)
	}

	_, err = svc.CreateFolder(context.Background(), superAdmin(), &CreateFolderRequest{
		Name:         "Reports",
		Page:         "/gosl-payroll/reports-2",
		Group:        "gosl-payroll",
		ParentFolder: parent.ID.Hex(),
	})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict on sibling name, got %v", err)
	}

	// Same name under a different parent is fine.
	other := seedFolder(repo, "Other", "/gosl-payroll/other", "gosl-payroll", "/gosl-payroll", nil)
	_, err = svc.CreateFolder(context.Background(), superAdmin(), &CreateFolderRequest{
		Name:         "Reports",
		Page:         "/gosl-payroll/other/reports",
		Group:        "gosl-payroll",
		ParentFolder: other.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("same name under different parent should succeed, got %v", err)
	}
}

func TestCreateFolderDefaults(t *testing.T) {
	repo := &mockFolderRepo{}
	svc := newTestService(repo, &mockEvents{})
	seedFolder(repo, "A", "/gosl-payroll/a", "gosl-payroll", "/gosl-payroll", nil).SortOrder = 3

	f, err := svc.CreateFolder(context.Background(), superAdmin(), &CreateFolderRequest{
		Name:       "B",
		Page:       "/gosl-payroll/b",
		Group:      "gosl-payroll",
		ParentPath: "/gosl-payroll",
	})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	if f.SortOrder != 4 {
		t.Errorf("sort order = %d, want max existing + 1 = 4", f.SortOrder)
	}
	if len(f.RequiredPermissions) != 1 || f.RequiredPermissions[0] != models.PermViewFolder {
		t.Errorf("default required permissions = %v, want baseline view key", f.RequiredPermissions)
	}
	if !f.IsActive {
		t.Error("new folders should default to active")
	}
}

func TestDeleteFolderWithChildren(t *testing.T) {
	repo := &mockFolderRepo{}
	svc := newTestService(repo, &mockEvents{})

	parent := seedFolder(repo, "Root", "/gosl-payroll", "gosl-payroll", "/", nil)
	child := seedFolder(repo, "Child", "/gosl-payroll/child", "gosl-payroll", "/gosl-payroll", nil)
	child.ParentFolder = &parent.ID

	err := svc.DeleteFolder(context.Background(), superAdmin(), parent.ID.Hex())
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict deleting folder with children, got %v", err)
	}

	if err := svc.DeleteFolder(context.Background(), superAdmin(), child.ID.Hex()); err != nil {
		t.Fatalf("deleting the leaf should succeed: %v", err)
	}
	if err := svc.DeleteFolder(context.Background(), superAdmin(), parent.ID.Hex()); err != nil {
		t.Fatalf("deleting the now-empty parent should succeed: %v", err)
	}
}

func TestReorderPartialSuccess(t *testing.T) {
	repo := &mockFolderRepo{}
	events := &mockEvents{}
	svc := newTestService(repo, events)

	a := seedFolder(repo, "A", "/gosl-payroll/a", "gosl-payroll", "/gosl-payroll", nil)
	b := seedFolder(repo, "B", "/gosl-payroll/b", "gosl-payroll", "/gosl-payroll", nil)

	result, err := svc.Reorder(context.Background(), superAdmin(), &ReorderRequest{Items: []ReorderItem{
		{ID: a.ID.Hex(), SortOrder: 2},
		{ID: primitive.NewObjectID().Hex(), SortOrder: 9},
		{ID: b.ID.Hex(), SortOrder: 1},
	}})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if result.Updated != 2 || len(result.Failed) != 1 {
		t.Fatalf("expected 2 updated / 1 failed, got %+v", result)
	}
	if a.SortOrder != 2 || b.SortOrder != 1 {
		t.Errorf("sort orders not applied: a=%d b=%d", a.SortOrder, b.SortOrder)
	}
	if len(events.actions) != 1 {
		t.Errorf("expected one summary audit event, got %v", events.actions)
	}
}
