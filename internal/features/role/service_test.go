package role

import (
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/models"
	"go-pdx/internal/features/permission"
	"go-pdx/internal/features/systemevent"
)

type mockRoleRepo struct {
	roles []*Role
}

func (m *mockRoleRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (m *mockRoleRepo) Create(ctx context.Context, r *Role) error {
	r.ID = primitive.NewObjectID()
	clone := *r
	m.roles = append(m.roles, &clone)
	return nil
}

func (m *mockRoleRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Role, error) {
	for _, r := range m.roles {
		if r.ID == id {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockRoleRepo) FindByName(ctx context.Context, name string) (*Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockRoleRepo) List(ctx context.Context) ([]Role, error) {
	out := make([]Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRoleRepo) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Role, error) {
	for _, r := range m.roles {
		if r.ID == id {
			if v, ok := update["name"]; ok {
				r.Name = v.(string)
			}
			if v, ok := update["permissions"]; ok {
				r.Permissions = v.([]primitive.ObjectID)
			}
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockRoleRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, r := range m.roles {
		if r.ID == id {
			m.roles = append(m.roles[:i], m.roles[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockRoleRepo) RemovePermissionFromRoles(ctx context.Context, permissionID primitive.ObjectID) error {
	for _, r := range m.roles {
		kept := r.Permissions[:0]
		for _, p := range r.Permissions {
			if p != permissionID {
				kept = append(kept, p)
			}
		}
		r.Permissions = kept
	}
	return nil
}

type mockPermRepo struct {
	perms []permission.Permission
}

func (m *mockPermRepo) EnsureIndexes(ctx context.Context) error                   { return nil }
func (m *mockPermRepo) Create(ctx context.Context, p *permission.Permission) error { return nil }
func (m *mockPermRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*permission.Permission, error) {
	return nil, nil
}
func (m *mockPermRepo) FindByKey(ctx context.Context, key string) (*permission.Permission, error) {
	return nil, nil
}
func (m *mockPermRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]permission.Permission, error) {
	out := make([]permission.Permission, 0)
	for _, id := range ids {
		for _, p := range m.perms {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}
func (m *mockPermRepo) List(ctx context.Context) ([]permission.Permission, error) { return nil, nil }
func (m *mockPermRepo) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*permission.Permission, error) {
	return nil, nil
}
func (m *mockPermRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

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

func newTestService() (*RoleServiceImpl, *mockRoleRepo, *mockPermRepo) {
	repo := &mockRoleRepo{}
	perms := &mockPermRepo{}
	svc := &RoleServiceImpl{Repo: repo, PermRepo: perms, Events: &mockEvents{}}
	return svc, repo, perms
}

func seedPermission(perms *mockPermRepo, key string) permission.Permission {
	p := permission.Permission{ID: primitive.NewObjectID(), Name: key, Key: key}
	perms.perms = append(perms.perms, p)
	return p
}

func admin() *models.Identity {
	return &models.Identity{UserID: primitive.NewObjectID(), Username: "root", RoleName: models.RoleSuperAdmin}
}

func TestCreateRoleResolvesPermissions(t *testing.T) {
	svc, _, perms := newTestService()
	view := seedPermission(perms, "view_folder")
	submit := seedPermission(perms, "submit_forms")

	r, err := svc.CreateRole(context.Background(), admin(), &CreateRoleRequest{
		Name:        "payroll-clerk",
		Permissions: []string{view.ID.Hex(), submit.ID.Hex()},
	})
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}
	if len(r.Permissions) != 2 {
		t.Fatalf("expected 2 permission refs, got %d", len(r.Permissions))
	}

	keys, err := svc.PermissionKeys(context.Background(), r)
	if err != nil {
		t.Fatalf("PermissionKeys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "view_folder" || keys[1] != "submit_forms" {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func TestCreateRoleRejectsUnknownPermission(t *testing.T) {
	svc, _, perms := newTestService()
	view := seedPermission(perms, "view_folder")

	_, err := svc.CreateRole(context.Background(), admin(), &CreateRoleRequest{
		Name:        "payroll-clerk",
		Permissions: []string{view.ID.Hex(), primitive.NewObjectID().Hex()},
	})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for unknown permission, got %v", err)
	}
}

func TestPermissionKeysSkipsDanglingReferences(t *testing.T) {
	svc, _, perms := newTestService()
	view := seedPermission(perms, "view_folder")

	r := &Role{
		ID:          primitive.NewObjectID(),
		Name:        "payroll-clerk",
		Permissions: []primitive.ObjectID{view.ID, primitive.NewObjectID()},
	}

	keys, err := svc.PermissionKeys(context.Background(), r)
	if err != nil {
		t.Fatalf("PermissionKeys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "view_folder" {
		t.Errorf("dangling reference should be skipped, got %v", keys)
	}
}

func TestDeleteSuperAdminRoleRejected(t *testing.T) {
	svc, repo, _ := newTestService()
	sadmin := &Role{ID: primitive.NewObjectID(), Name: models.RoleSuperAdmin}
	repo.roles = append(repo.roles, sadmin)

	err := svc.DeleteRole(context.Background(), admin(), sadmin.ID.Hex())
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict deleting super-admin role, got %v", err)
	}
	if len(repo.roles) != 1 {
		t.Error("super-admin role must not be deleted")
	}
}

func TestDeleteOrdinaryRoleSucceeds(t *testing.T) {
	svc, repo, _ := newTestService()
	clerk := &Role{ID: primitive.NewObjectID(), Name: "payroll-clerk"}
	repo.roles = append(repo.roles, clerk)

	if err := svc.DeleteRole(context.Background(), admin(), clerk.ID.Hex()); err != nil {
		t.Fatalf("DeleteRole: %v", err)
	}
	if len(repo.roles) != 0 {
		t.Error("role was not deleted")
	}
}

func TestRemovePermissionFromRolesPullsReference(t *testing.T) {
	svc, repo, perms := newTestService()
	view := seedPermission(perms, "view_folder")
	submit := seedPermission(perms, "submit_forms")

	r := &Role{
		ID:          primitive.NewObjectID(),
		Name:        "payroll-clerk",
		Permissions: []primitive.ObjectID{view.ID, submit.ID},
	}
	repo.roles = append(repo.roles, r)

	if err := repo.RemovePermissionFromRoles(context.Background(), submit.ID); err != nil {
		t.Fatalf("RemovePermissionFromRoles: %v", err)
	}

	detail, err := svc.GetRole(context.Background(), r.ID.Hex())
	if err != nil {
		t.Fatalf("GetRole: %v", err)
	}
	if len(detail.Permissions) != 1 || detail.Permissions[0] != view.ID {
		t.Errorf("reference was not pulled: %v", detail.Permissions)
	}
	if len(detail.PermissionKeys) != 1 || detail.PermissionKeys[0] != "view_folder" {
		t.Errorf("unexpected keys: %v", detail.PermissionKeys)
	}
}
