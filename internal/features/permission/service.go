package permission

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/models"
	"go-pdx/internal/features/systemevent"
)

// RoleCleaner removes a deleted permission from every role that references
// it. Satisfied by the role repository; declared here to avoid an import
// cycle between the permission and role packages.
type RoleCleaner interface {
	RemovePermissionFromRoles(ctx context.Context, permissionID primitive.ObjectID) error
}

type PermissionService interface {
	CreatePermission(ctx context.Context, actor *models.Identity, req *CreatePermissionRequest) (*Permission, error)
	GetPermission(ctx context.Context, id string) (*Permission, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
	UpdatePermission(ctx context.Context, actor *models.Identity, id string, req *UpdatePermissionRequest) (*Permission, error)
	DeletePermission(ctx context.Context, actor *models.Identity, id string) error
}

type PermissionServiceImpl struct {
	Repo        PermissionRepository
	RoleCleaner RoleCleaner
	Events      systemevent.SystemEventService
}

func NewPermissionService(repo PermissionRepository, cleaner RoleCleaner, events systemevent.SystemEventService) PermissionService {
	return &PermissionServiceImpl{
		Repo:        repo,
		RoleCleaner: cleaner,
		Events:      events,
	}
}

func (s *PermissionServiceImpl) CreatePermission(ctx context.Context, actor *models.Identity, req *CreatePermissionRequest) (*Permission, error) {
	now := time.Now().UTC()
	p := &Permission{
		Name:        req.Name,
		Key:         req.Key,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, apperr.DuplicateKey(err, fmt.Sprintf("permission with key '%s' already exists", req.Key))
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Created permission '%s' (%s)", p.Name, p.Key))
	return p, nil
}

func (s *PermissionServiceImpl) GetPermission(ctx context.Context, id string) (*Permission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid permission id")
	}

	p, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("permission not found")
	}
	return p, nil
}

func (s *PermissionServiceImpl) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.Repo.List(ctx)
}

func (s *PermissionServiceImpl) UpdatePermission(ctx context.Context, actor *models.Identity, id string, req *UpdatePermissionRequest) (*Permission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid permission id")
	}

	update := bson.M{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Key != nil {
		update["key"] = *req.Key
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}

	p, err := s.Repo.Update(ctx, oid, update)
	if err != nil {
		return nil, apperr.DuplicateKey(err, "permission key already in use")
	}
	if p == nil {
		return nil, apperr.NotFound("permission not found")
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Updated permission '%s' (%s)", p.Name, p.Key))
	return p, nil
}

// DeletePermission removes the permission and pulls its id out of every
// role, so no role is left holding a dangling reference.
func (s *PermissionServiceImpl) DeletePermission(ctx context.Context, actor *models.Identity, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("invalid permission id")
	}

	p, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.NotFound("permission not found")
	}

	if err := s.RoleCleaner.RemovePermissionFromRoles(ctx, oid); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, oid); err != nil {
		return err
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Deleted permission '%s' (%s)", p.Name, p.Key))
	return nil
}
