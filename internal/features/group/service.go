package group

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/models"
	"go-pdx/internal/features/folder"
	"go-pdx/internal/features/systemevent"
)

type GroupService interface {
	CreateGroup(ctx context.Context, actor *models.Identity, req *CreateGroupRequest) (*Group, error)
	GetGroup(ctx context.Context, id string) (*Group, error)
	ListGroups(ctx context.Context) ([]Group, error)
	ListGroupStats(ctx context.Context) ([]GroupStats, error)
	UpdateGroup(ctx context.Context, actor *models.Identity, id string, req *UpdateGroupRequest) (*Group, error)
	DeleteGroup(ctx context.Context, actor *models.Identity, id string) error
}

type GroupServiceImpl struct {
	Repo       GroupRepository
	FolderRepo folder.FolderRepository
	Events     systemevent.SystemEventService
}

func NewGroupService(repo GroupRepository, folderRepo folder.FolderRepository, events systemevent.SystemEventService) GroupService {
	return &GroupServiceImpl{
		Repo:       repo,
		FolderRepo: folderRepo,
		Events:     events,
	}
}

func (s *GroupServiceImpl) CreateGroup(ctx context.Context, actor *models.Identity, req *CreateGroupRequest) (*Group, error) {
	var parentID *primitive.ObjectID
	if req.ParentGroup != "" {
		oid, err := primitive.ObjectIDFromHex(req.ParentGroup)
		if err != nil {
			return nil, apperr.Validation("invalid parent group id")
		}
		parent, err := s.Repo.FindByID(ctx, oid)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.Validation("parent group does not exist")
		}
		parentID = &oid
	}

	perms := req.DefaultPermissions
	if perms == nil {
		perms = []string{models.PermViewFolder}
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	autoGen := AutoGeneration{}
	if req.AutoGeneration != nil {
		autoGen = *req.AutoGeneration
	}

	now := time.Now().UTC()
	g := &Group{
		Name:               req.Name,
		Code:               req.Code,
		Description:        req.Description,
		Icon:               req.Icon,
		DefaultTheme:       req.DefaultTheme,
		DefaultPermissions: perms,
		ParentGroup:        parentID,
		IsActive:           true,
		SortOrder:          sortOrder,
		AutoGeneration:     autoGen,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.Repo.Create(ctx, g); err != nil {
		return nil, apperr.DuplicateKey(err, fmt.Sprintf("group name or code '%s' already exists", req.Code))
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Created group '%s' (%s)", g.Name, g.Code))
	return g, nil
}

func (s *GroupServiceImpl) GetGroup(ctx context.Context, id string) (*Group, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid group id")
	}

	g, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.NotFound("group not found")
	}
	return g, nil
}

func (s *GroupServiceImpl) ListGroups(ctx context.Context) ([]Group, error) {
	return s.Repo.List(ctx)
}

func (s *GroupServiceImpl) ListGroupStats(ctx context.Context) ([]GroupStats, error) {
	groups, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]GroupStats, 0, len(groups))
	for _, g := range groups {
		count, err := s.FolderRepo.CountByGroup(ctx, g.Code)
		if err != nil {
			return nil, err
		}
		stats = append(stats, GroupStats{Group: g, FolderCount: count})
	}
	return stats, nil
}

func (s *GroupServiceImpl) UpdateGroup(ctx context.Context, actor *models.Identity, id string, req *UpdateGroupRequest) (*Group, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid group id")
	}

	update := bson.M{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Icon != nil {
		update["icon"] = *req.Icon
	}
	if req.DefaultTheme != nil {
		update["default_theme"] = *req.DefaultTheme
	}
	if req.DefaultPermissions != nil {
		update["default_permissions"] = *req.DefaultPermissions
	}
	if req.IsActive != nil {
		update["is_active"] = *req.IsActive
	}
	if req.SortOrder != nil {
		update["sort_order"] = *req.SortOrder
	}
	if req.AutoGeneration != nil {
		update["auto_generation"] = *req.AutoGeneration
	}

	g, err := s.Repo.Update(ctx, oid, update)
	if err != nil {
		return nil, apperr.DuplicateKey(err, "group name already in use")
	}
	if g == nil {
		return nil, apperr.NotFound("group not found")
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Updated group '%s' (%s)", g.Name, g.Code))
	return g, nil
}

// DeleteGroup refuses while folders still carry the group's code or
// child groups still point at it.
func (s *GroupServiceImpl) DeleteGroup(ctx context.Context, actor *models.Identity, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("invalid group id")
	}

	g, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return err
	}
	if g == nil {
		return apperr.NotFound("group not found")
	}

	folders, err := s.FolderRepo.CountByGroup(ctx, g.Code)
	if err != nil {
		return err
	}
	if folders > 0 {
		return apperr.Conflict("group still has folders; remove or reassign them first")
	}

	children, err := s.Repo.CountChildren(ctx, oid)
	if err != nil {
		return err
	}
	if children > 0 {
		return apperr.Conflict("group still has child groups; remove them first")
	}

	if err := s.Repo.Delete(ctx, oid); err != nil {
		return err
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Deleted group '%s' (%s)", g.Name, g.Code))
	return nil
}
