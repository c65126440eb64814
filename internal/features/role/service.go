package role

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/models"
	"go-pdx/internal/features/permission"
	"go-pdx/internal/features/systemevent"
)

type RoleService interface {
	CreateRole(ctx context.Context, actor *models.Identity, req *CreateRoleRequest) (*Role, error)
	GetRole(ctx context.Context, id string) (*RoleDetail, error)
	ListRoles(ctx context.Context) ([]Role, error)
	UpdateRole(ctx context.Context, actor *models.Identity, id string, req *UpdateRoleRequest) (*Role, error)
	DeleteRole(ctx context.Context, actor *models.Identity, id string) error

	// PermissionKeys resolves a role's permission references to their
	// machine-readable keys. Dangling references are skipped.
	PermissionKeys(ctx context.Context, role *Role) ([]string, error)
}

type RoleServiceImpl struct {
	Repo     RoleRepository
	PermRepo permission.PermissionRepository
	Events   systemevent.SystemEventService
}

func NewRoleService(repo RoleRepository, permRepo permission.PermissionRepository, events systemevent.SystemEventService) RoleService {
	return &RoleServiceImpl{
		Repo:     repo,
		PermRepo: permRepo,
		Events:   events,
	}
}

func (s *RoleServiceImpl) resolvePermissionIDs(ctx context.Context, ids []string) ([]primitive.ObjectID, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("invalid permission id '%s'", id))
		}
		oids = append(oids, oid)
	}

	found, err := s.PermRepo.FindByIDs(ctx, oids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(oids) {
		return nil, apperr.Validation("one or more permissions do not exist")
	}
	return oids, nil
}

func (s *RoleServiceImpl) CreateRole(ctx context.Context, actor *models.Identity, req *CreateRoleRequest) (*Role, error) {
	perms, err := s.resolvePermissionIDs(ctx, req.Permissions)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	role := &Role{
		Name:        req.Name,
		Description: req.Description,
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, role); err != nil {
		return nil, apperr.DuplicateKey(err, fmt.Sprintf("role '%s' already exists", req.Name))
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Created role '%s'", role.Name))
	return role, nil
}

func (s *RoleServiceImpl) GetRole(ctx context.Context, id string) (*RoleDetail, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid role id")
	}

	role, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperr.NotFound("role not found")
	}

	keys, err := s.PermissionKeys(ctx, role)
	if err != nil {
		return nil, err
	}
	return &RoleDetail{Role: *role, PermissionKeys: keys}, nil
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]Role, error) {
	return s.Repo.List(ctx)
}

func (s *RoleServiceImpl) UpdateRole(ctx context.Context, actor *models.Identity, id string, req *UpdateRoleRequest) (*Role, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid role id")
	}

	update := bson.M{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Permissions != nil {
		perms, err := s.resolvePermissionIDs(ctx, *req.Permissions)
		if err != nil {
			return nil, err
		}
		update["permissions"] = perms
	}

	role, err := s.Repo.Update(ctx, oid, update)
	if err != nil {
		return nil, apperr.DuplicateKey(err, "role name already in use")
	}
	if role == nil {
		return nil, apperr.NotFound("role not found")
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Updated role '%s'", role.Name))
	return role, nil
}

func (s *RoleServiceImpl) DeleteRole(ctx context.Context, actor *models.Identity, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("invalid role id")
	}

	role, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return err
	}
	if role == nil {
		return apperr.NotFound("role not found")
	}
	if role.Name == models.RoleSuperAdmin {
		return apperr.Conflict("the super-admin role cannot be deleted")
	}

	if err := s.Repo.Delete(ctx, oid); err != nil {
		return err
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Deleted role '%s'", role.Name))
	return nil
}

func (s *RoleServiceImpl) PermissionKeys(ctx context.Context, role *Role) ([]string, error) {
	perms, err := s.PermRepo.FindByIDs(ctx, role.Permissions)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(perms))
	for _, p := range perms {
		keys = append(keys, p.Key)
	}
	return keys, nil
}
