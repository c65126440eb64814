package group

import (
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/models"
	"go-pdx/internal/features/folder"
	"go-pdx/internal/features/systemevent"
)

type mockGroupRepo struct {
	groups []*Group
}

func (m *mockGroupRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (m *mockGroupRepo) Create(ctx context.Context, g *Group) error {
	g.ID = primitive.NewObjectID()
	clone := *g
	m.groups = append(m.groups, &clone)
	return nil
}

func (m *mockGroupRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Group, error) {
	for _, g := range m.groups {
		if g.ID == id {
			clone := *g
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockGroupRepo) FindByCode(ctx context.Context, code string) (*Group, error) {
	for _, g := range m.groups {
		if g.Code == code {
			clone := *g
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockGroupRepo) List(ctx context.Context) ([]Group, error) {
	out := make([]Group, 0, len(m.groups))
	for _, g := range m.groups {
		out = append(out, *g)
	}
	return out, nil
}

func (m *mockGroupRepo) CountChildren(ctx context.Context, id primitive.ObjectID) (int64, error) {
	var n int64
	for _, g := range m.groups {
		if g.ParentGroup != nil && *g.ParentGroup == id {
			n++
		}
	}
	return n, nil
}

func (m *mockGroupRepo) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Group, error) {
	for _, g := range m.groups {
		if g.ID == id {
			if v, ok := update["name"]; ok {
				g.Name = v.(string)
			}
			if v, ok := update["is_active"]; ok {
				g.IsActive = v.(bool)
			}
			clone := *g
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockGroupRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, g := range m.groups {
		if g.ID == id {
			m.groups = append(m.groups[:i], m.groups[i+1:]...)
			return nil
		}
	}
	return nil
}

// stubFolderRepo only answers group counts; nothing else is reached
// from the group service.
type stubFolderRepo struct {
	countByGroup map[string]int64
}

func (s *stubFolderRepo) EnsureIndexes(ctx context.Context) error              { return nil }
func (s *stubFolderRepo) Create(ctx context.Context, f *folder.Folder) error   { return nil }
func (s *stubFolderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*folder.Folder, error) {
	return nil, nil
}
func (s *stubFolderRepo) FindByPage(ctx context.Context, page string) (*folder.Folder, error) {
	return nil, nil
}
func (s *stubFolderRepo) Find(ctx context.Context, filter bson.M) ([]folder.Folder, error) {
	return nil, nil
}
func (s *stubFolderRepo) FindOne(ctx context.Context, filter bson.M) (*folder.Folder, error) {
	return nil, nil
}
func (s *stubFolderRepo) MaxSortOrder(ctx context.Context, parentPath string) (int, error) {
	return 0, nil
}
func (s *stubFolderRepo) SiblingExists(ctx context.Context, name string, parentFolder *primitive.ObjectID, excludeID primitive.ObjectID) (bool, error) {
	return false, nil
}
func (s *stubFolderRepo) CountChildren(ctx context.Context, id primitive.ObjectID, page string) (int64, error) {
	return 0, nil
}
func (s *stubFolderRepo) CountByGroup(ctx context.Context, group string) (int64, error) {
	return s.countByGroup[group], nil
}
func (s *stubFolderRepo) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*folder.Folder, error) {
	return nil, nil
}
func (s *stubFolderRepo) UpdateSortOrder(ctx context.Context, id primitive.ObjectID, sortOrder int) error {
	return nil
}
func (s *stubFolderRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

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

func newTestService() (*GroupServiceImpl, *mockGroupRepo, *stubFolderRepo) {
	repo := &mockGroupRepo{}
	folders := &stubFolderRepo{countByGroup: map[string]int64{}}
	svc := &GroupServiceImpl{Repo: repo, FolderRepo: folders, Events: &mockEvents{}}
	return svc, repo, folders
}

func admin() *models.Identity {
	return &models.Identity{UserID: primitive.NewObjectID(), Username: "root", RoleName: models.RoleSuperAdmin}
}

func TestCreateGroupDefaults(t *testing.T) {
	svc, _, _ := newTestService()

	g, err := svc.CreateGroup(context.Background(), admin(), &CreateGroupRequest{
		Name: "GOSL Payroll",
		Code: "gosl-payroll",
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if !g.IsActive {
		t.Error("new groups should default to active")
	}
	if len(g.DefaultPermissions) != 1 || g.DefaultPermissions[0] != models.PermViewFolder {
		t.Errorf("unexpected default permissions: %v", g.DefaultPermissions)
	}
}

func TestCreateGroupRejectsUnknownParent(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateGroup(context.Background(), admin(), &CreateGroupRequest{
		Name:        "Archive",
		Code:        "payroll-archive",
		ParentGroup: primitive.NewObjectID().Hex(),
	})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for unknown parent, got %v", err)
	}
}

func TestDeleteGroupWithFoldersRejected(t *testing.T) {
	svc, repo, folders := newTestService()

	g, err := svc.CreateGroup(context.Background(), admin(), &CreateGroupRequest{
		Name: "GOSL Payroll",
		Code: "gosl-payroll",
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	folders.countByGroup["gosl-payroll"] = 3

	err = svc.DeleteGroup(context.Background(), admin(), g.ID.Hex())
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict deleting a group with folders, got %v", err)
	}
	if len(repo.groups) != 1 {
		t.Error("group must not be deleted while folders reference it")
	}
}

func TestDeleteGroupWithChildGroupsRejected(t *testing.T) {
	svc, _, _ := newTestService()

	parent, err := svc.CreateGroup(context.Background(), admin(), &CreateGroupRequest{
		Name: "Payroll",
		Code: "payroll",
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if _, err := svc.CreateGroup(context.Background(), admin(), &CreateGroupRequest{
		Name:        "Archive",
		Code:        "payroll-archive",
		ParentGroup: parent.ID.Hex(),
	}); err != nil {
		t.Fatalf("CreateGroup child: %v", err)
	}

	err = svc.DeleteGroup(context.Background(), admin(), parent.ID.Hex())
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict deleting a group with children, got %v", err)
	}
}

func TestDeleteEmptyGroupSucceeds(t *testing.T) {
	svc, repo, _ := newTestService()

	g, err := svc.CreateGroup(context.Background(), admin(), &CreateGroupRequest{
		Name: "HRM Public Service",
		Code: "hrm-public-service",
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	if err := svc.DeleteGroup(context.Background(), admin(), g.ID.Hex()); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}
	if len(repo.groups) != 0 {
		t.Error("group was not deleted")
	}
}

func TestGroupStatsCountsFolders(t *testing.T) {
	svc, _, folders := newTestService()

	if _, err := svc.CreateGroup(context.Background(), admin(), &CreateGroupRequest{
		Name: "GOSL Payroll",
		Code: "gosl-payroll",
	}); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	folders.countByGroup["gosl-payroll"] = 7

	stats, err := svc.ListGroupStats(context.Background())
	if err != nil {
		t.Fatalf("ListGroupStats: %v", err)
	}
	if len(stats) != 1 || stats[0].FolderCount != 7 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
