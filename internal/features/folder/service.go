package folder

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/models"
	"go-pdx/internal/config"
	"go-pdx/internal/features/systemevent"
)

type FolderService interface {
	// Visibility-filtered reads. Every read takes the caller's resolved
	// identity and selects one of three scopes: top-level folders of a
	// group, direct children of a path, or one exact path.
	ListByGroup(ctx context.Context, identity *models.Identity, group string, includeInactive bool) ([]Folder, error)
	ListChildren(ctx context.Context, identity *models.Identity, parentPath string, includeInactive bool) ([]Folder, error)
	GetByPath(ctx context.Context, identity *models.Identity, page string) (*Folder, error)

	CreateFolder(ctx context.Context, actor *models.Identity, req *CreateFolderRequest) (*Folder, error)
	UpdateFolder(ctx context.Context, actor *models.Identity, id string, req *UpdateFolderRequest) (*Folder, error)
	DeleteFolder(ctx context.Context, actor *models.Identity, id string) error
	Reorder(ctx context.Context, actor *models.Identity, req *ReorderRequest) (*ReorderResult, error)

	RootPathForGroup(group string) string
}

type FolderServiceImpl struct {
	Repo   FolderRepository
	Events systemevent.SystemEventService
	Config *config.Config
}

func NewFolderService(repo FolderRepository, events systemevent.SystemEventService, cfg *config.Config) FolderService {
	return &FolderServiceImpl{
		Repo:   repo,
		Events: events,
		Config: cfg,
	}
}

// RootPathForGroup maps a group code to the parent path its top-level
// folders carry. The portal group sits at the portal root itself; the
// archive group has its own root; every other group nests under the
// portal root.
func (s *FolderServiceImpl) RootPathForGroup(group string) string {
	switch group {
	case models.GroupGOSLPayroll:
		return s.Config.PortalRootPath
	case models.GroupPayrollArchive:
		return s.Config.ArchiveRootPath
	default:
		return s.Config.PortalRootPath + "/" + group
	}
}

// permissionFilter returns the visibility constraint for the caller, or
// short=true when the caller holds no permissions and can see nothing.
// A folder with an empty required-permission set is visible to
// super-admins only.
func permissionFilter(identity *models.Identity) (filter bson.M, short bool) {
	if identity != nil && identity.IsSuperAdmin() {
		return nil, false
	}
	if identity == nil || len(identity.Permissions) == 0 {
		return nil, true
	}
	return bson.M{"required_permissions": bson.M{"$in": identity.Permissions}}, false
}

func (s *FolderServiceImpl) listVisible(ctx context.Context, identity *models.Identity, scope bson.M, includeInactive bool) ([]Folder, error) {
	permFilter, short := permissionFilter(identity)
	if short {
		return []Folder{}, nil
	}

	filter := bson.M{}
	for k, v := range scope {
		filter[k] = v
	}
	for k, v := range permFilter {
		filter[k] = v
	}
	if !includeInactive {
		filter["is_active"] = true
	} else if identity == nil || !identity.IsAdmin() {
		// Inactive folders are an admin-only view.
		filter["is_active"] = true
	}

	return s.Repo.Find(ctx, filter)
}

func (s *FolderServiceImpl) ListByGroup(ctx context.Context, identity *models.Identity, group string, includeInactive bool) ([]Folder, error) {
	return s.listVisible(ctx, identity, bson.M{
		"group":       group,
		"parent_path": s.RootPathForGroup(group),
	}, includeInactive)
}

func (s *FolderServiceImpl) ListChildren(ctx context.Context, identity *models.Identity, parentPath string, includeInactive bool) ([]Folder, error) {
	scope := bson.M{"parent_path": parentPath}

	// A parent declaring a child group constrains its children to that
	// group, independent of path structure.
	parent, err := s.Repo.FindByPage(ctx, parentPath)
	if err != nil {
		return nil, err
	}
	if parent != nil && parent.ChildGroup != "" {
		scope["group"] = parent.ChildGroup
	}

	return s.listVisible(ctx, identity, scope, includeInactive)
}

func (s *FolderServiceImpl) GetByPath(ctx context.Context, identity *models.Identity, page string) (*Folder, error) {
	permFilter, short := permissionFilter(identity)
	if short {
		return nil, apperr.NotFound("folder not found")
	}

	filter := bson.M{"page": page}
	for k, v := range permFilter {
		filter[k] = v
	}
	if identity == nil || !identity.IsAdmin() {
		// Deactivated folders stay reachable for admins only.
		filter["is_active"] = true
	}

	f, err := s.Repo.FindOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperr.NotFound("folder not found")
	}
	return f, nil
}

func (s *FolderServiceImpl) CreateFolder(ctx context.Context, actor *models.Identity, req *CreateFolderRequest) (*Folder, error) {
	existing, err := s.Repo.FindByPage(ctx, req.Page)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict(fmt.Sprintf("folder page '%s' already exists", req.Page))
	}

	var parentID *primitive.ObjectID
	parentPath := req.ParentPath
	if req.ParentFolder != "" {
		oid, err := primitive.ObjectIDFromHex(req.ParentFolder)
		if err != nil {
			return nil, apperr.Validation("invalid parent folder id")
		}
		parent, err := s.Repo.FindByID(ctx, oid)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.Validation("parent folder does not exist")
		}
		parentID = &oid
		if parentPath == "" {
			parentPath = parent.Page
		}
	}
	if parentPath == "" {
		parentPath = "/"
	}

	taken, err := s.Repo.SiblingExists(ctx, req.Name, parentID, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict(fmt.Sprintf("a folder named '%s' already exists under the same parent", req.Name))
	}

	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	} else {
		max, err := s.Repo.MaxSortOrder(ctx, parentPath)
		if err != nil {
			return nil, err
		}
		sortOrder = max + 1
	}

	perms := req.RequiredPermissions
	if perms == nil {
		perms = []string{models.PermViewFolder}
	}
	theme := req.Theme
	if theme == "" {
		theme = models.ThemeBlue
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC()
	f := &Folder{
		Name:                req.Name,
		Subtitle:            req.Subtitle,
		Label:               req.Label,
		Page:                req.Page,
		Group:               req.Group,
		ChildGroup:          req.ChildGroup,
		ParentFolder:        parentID,
		ParentPath:          parentPath,
		RequiredPermissions: perms,
		IsActive:            isActive,
		Theme:               theme,
		SortOrder:           sortOrder,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if actor != nil {
		uid := actor.UserID
		f.CreatedBy = &uid
	}

	if err := s.Repo.Create(ctx, f); err != nil {
		return nil, apperr.DuplicateKey(err, "folder page or sibling name already exists")
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Created folder '%s' (%s)", f.Name, f.Page))
	return f, nil
}

func (s *FolderServiceImpl) UpdateFolder(ctx context.Context, actor *models.Identity, id string, req *UpdateFolderRequest) (*Folder, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid folder id")
	}

	existing, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("folder not found")
	}

	update := bson.M{"updated_at": time.Now().UTC()}
	if req.Name != nil && *req.Name != existing.Name {
		taken, err := s.Repo.SiblingExists(ctx, *req.Name, existing.ParentFolder, oid)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict(fmt.Sprintf("a folder named '%s' already exists under the same parent", *req.Name))
		}
		update["name"] = *req.Name
	}
	if req.Page != nil && *req.Page != existing.Page {
		other, err := s.Repo.FindByPage(ctx, *req.Page)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, apperr.Conflict(fmt.Sprintf("folder page '%s' already exists", *req.Page))
		}
		update["page"] = *req.Page
	}
	if req.Subtitle != nil {
		update["subtitle"] = *req.Subtitle
	}
	if req.Label != nil {
		update["label"] = *req.Label
	}
	if req.ChildGroup != nil {
		update["child_group"] = *req.ChildGroup
	}
	if req.RequiredPermissions != nil {
		update["required_permissions"] = *req.RequiredPermissions
	}
	if req.Theme != nil {
		update["theme"] = *req.Theme
	}
	if req.SortOrder != nil {
		update["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		update["is_active"] = *req.IsActive
	}
	if actor != nil {
		update["updated_by"] = actor.UserID
	}

	f, err := s.Repo.Update(ctx, oid, update)
	if err != nil {
		return nil, apperr.DuplicateKey(err, "folder page or sibling name already exists")
	}
	if f == nil {
		return nil, apperr.NotFound("folder not found")
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Updated folder '%s' (%s)", f.Name, f.Page))
	return f, nil
}

// DeleteFolder refuses to orphan children: a folder referenced as a
// parent, or one whose child group still has folders, must be emptied
// first.
func (s *FolderServiceImpl) DeleteFolder(ctx context.Context, actor *models.Identity, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("invalid folder id")
	}

	f, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return err
	}
	if f == nil {
		return apperr.NotFound("folder not found")
	}

	children, err := s.Repo.CountChildren(ctx, oid, f.Page)
	if err != nil {
		return err
	}
	if children > 0 {
		return apperr.Conflict("folder has child folders; reassign or remove them first")
	}

	if f.ChildGroup != "" {
		grouped, err := s.Repo.CountByGroup(ctx, f.ChildGroup)
		if err != nil {
			return err
		}
		if grouped > 0 {
			return apperr.Conflict("folder's child group still has folders; remove them first")
		}
	}

	if err := s.Repo.Delete(ctx, oid); err != nil {
		return err
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Deleted folder '%s' (%s)", f.Name, f.Page))
	return nil
}

func (s *FolderServiceImpl) Reorder(ctx context.Context, actor *models.Identity, req *ReorderRequest) (*ReorderResult, error) {
	result := &ReorderResult{}
	for _, item := range req.Items {
		oid, err := primitive.ObjectIDFromHex(item.ID)
		if err != nil {
			result.Failed = append(result.Failed, item.ID)
			continue
		}
		if err := s.Repo.UpdateSortOrder(ctx, oid, item.SortOrder); err != nil {
			result.Failed = append(result.Failed, item.ID)
			continue
		}
		result.Updated++
	}

	s.Events.Record(ctx, actor,
		fmt.Sprintf("Reordered folders: %d updated, %d failed", result.Updated, len(result.Failed)))
	return result, nil
}
