package user

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/models"
	"go-pdx/internal/features/role"
	"go-pdx/internal/features/systemevent"
)

type UserService interface {
	CreateUser(ctx context.Context, actor *models.Identity, req *CreateUserRequest) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, actor *models.Identity, id string, req *UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, actor *models.Identity, id string) error
}

type UserServiceImpl struct {
	Repo     UserRepository
	RoleRepo role.RoleRepository
	Events   systemevent.SystemEventService
}

func NewUserService(repo UserRepository, roleRepo role.RoleRepository, events systemevent.SystemEventService) UserService {
	return &UserServiceImpl{
		Repo:     repo,
		RoleRepo: roleRepo,
		Events:   events,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, actor *models.Identity, req *CreateUserRequest) (*User, error) {
	roleID, err := primitive.ObjectIDFromHex(req.Role)
	if err != nil {
		return nil, apperr.Validation("invalid role id")
	}
	r, err := s.RoleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.Validation("role does not exist")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "failed to hash password")
	}

	now := time.Now().UTC()
	u := &User{
		Username:  req.Username,
		Password:  string(hash),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Ministry:  req.Ministry,
		Role:      roleID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, apperr.DuplicateKey(err, "username or email already in use")
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Created user '%s'", u.Username))
	return u, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid user id")
	}

	u, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]User, error) {
	return s.Repo.List(ctx)
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, actor *models.Identity, id string, req *UpdateUserRequest) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid user id")
	}

	existing, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("user not found")
	}

	update := bson.M{"updated_at": time.Now().UTC()}
	if req.FirstName != nil {
		update["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		update["last_name"] = *req.LastName
	}
	if req.Email != nil {
		update["email"] = *req.Email
	}
	if req.Ministry != nil {
		update["ministry"] = *req.Ministry
	}
	if req.Role != nil {
		roleID, err := primitive.ObjectIDFromHex(*req.Role)
		if err != nil {
			return nil, apperr.Validation("invalid role id")
		}
		r, err := s.RoleRepo.FindByID(ctx, roleID)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, apperr.Validation("role does not exist")
		}
		if roleID != existing.Role {
			if err := s.guardLastSuperAdmin(ctx, existing, "change the role of"); err != nil {
				return nil, err
			}
		}
		update["role"] = roleID
	}
	if req.IsActive != nil {
		if !*req.IsActive && existing.IsActive {
			if err := s.guardLastSuperAdmin(ctx, existing, "deactivate"); err != nil {
				return nil, err
			}
		}
		update["is_active"] = *req.IsActive
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.KindInternal, "failed to hash password")
		}
		update["password"] = string(hash)
	}

	u, err := s.Repo.Update(ctx, oid, update)
	if err != nil {
		return nil, apperr.DuplicateKey(err, "email already in use")
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Updated user '%s'", u.Username))
	return u, nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, actor *models.Identity, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("invalid user id")
	}

	u, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.NotFound("user not found")
	}

	if err := s.guardLastSuperAdmin(ctx, u, "delete"); err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, oid); err != nil {
		return err
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Deleted user '%s'", u.Username))
	return nil
}

// guardLastSuperAdmin rejects any operation that would leave the system
// without an active super-admin account.
func (s *UserServiceImpl) guardLastSuperAdmin(ctx context.Context, u *User, verb string) error {
	if !u.IsActive {
		return nil
	}
	r, err := s.RoleRepo.FindByID(ctx, u.Role)
	if err != nil {
		return err
	}
	if r == nil || r.Name != models.RoleSuperAdmin {
		return nil
	}

	others, err := s.Repo.CountOtherActiveWithRole(ctx, u.Role, u.ID)
	if err != nil {
		return err
	}
	if others == 0 {
		return apperr.Conflict(fmt.Sprintf("cannot %s the last active super-admin user", verb))
	}
	return nil
}
