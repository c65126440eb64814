package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/models"
	"go-pdx/internal/config"
	"go-pdx/internal/features/role"
	"go-pdx/internal/features/systemevent"
	"go-pdx/internal/features/user"
	"go-pdx/pkg/utils"
)

type AuthService interface {
	Authenticate(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	ResolveSession(ctx context.Context, token string) (*models.Identity, error)
	Logout(ctx context.Context, identity *models.Identity)
}

type AuthServiceImpl struct {
	UserRepo    user.UserRepository
	RoleRepo    role.RoleRepository
	RoleService role.RoleService
	Events      systemevent.SystemEventService
	Logger      *zap.Logger
	secret      []byte
}

func NewAuthService(
	userRepo user.UserRepository,
	roleRepo role.RoleRepository,
	roleService role.RoleService,
	events systemevent.SystemEventService,
	logger *zap.Logger,
	cfg *config.Config,
) AuthService {
	return &AuthServiceImpl{
		UserRepo:    userRepo,
		RoleRepo:    roleRepo,
		RoleService: roleService,
		Events:      events,
		Logger:      logger,
		secret:      []byte(cfg.JWTSecret),
	}
}

// Authenticate verifies credentials and mints a session token. Unknown
// usernames and wrong passwords produce the identical error so callers
// cannot probe for valid accounts.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	u, err := s.UserRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, apperr.InvalidCredentials()
	}

	r, err := s.RoleRepo.FindByID(ctx, u.Role)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.Unauthorized("Login failed: user role configuration error")
	}

	keys, err := s.RoleService.PermissionKeys(ctx, r)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(s.secret, u.ID, u.Username, u.Ministry)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "failed to sign session token")
	}

	if err := s.UserRepo.UpdateLastLogin(ctx, u.ID, time.Now().UTC()); err != nil {
		s.Logger.Warn("failed to stamp last login",
			zap.String("username", u.Username),
			zap.Error(err))
	}

	identity := &models.Identity{
		UserID:      u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Ministry:    u.Ministry,
		RoleName:    r.Name,
		Permissions: keys,
	}
	s.Events.Record(ctx, identity, fmt.Sprintf("User '%s' logged in", u.Username))

	return &LoginResponse{
		Token:       token,
		ID:          u.ID.Hex(),
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Ministry:    u.Ministry,
		Role:        r.Name,
		Permissions: keys,
	}, nil
}

// ResolveSession validates a bearer token and rebuilds the caller's
// identity from current user, role and permission records. Nothing about
// authority is trusted from the token itself.
func (s *AuthServiceImpl) ResolveSession(ctx context.Context, token string) (*models.Identity, error) {
	claims, err := utils.ValidateToken(s.secret, token)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return nil, apperr.Unauthorized("Unauthorized: Token expired")
		}
		return nil, apperr.Unauthorized("Unauthorized: Invalid token")
	}

	uid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Unauthorized: Invalid token")
	}

	u, err := s.UserRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.Unauthorized("Unauthorized: User not found")
	}
	if !u.IsActive {
		return nil, apperr.Unauthorized("Unauthorized: User account is inactive")
	}

	r, err := s.RoleRepo.FindByID(ctx, u.Role)
	if err != nil {
		return nil, err
	}
	if r == nil {
		// A user whose role was deleted keeps no residual authority.
		return nil, apperr.Forbidden("Forbidden: authorization data incomplete")
	}

	keys, err := s.RoleService.PermissionKeys(ctx, r)
	if err != nil {
		return nil, err
	}

	return &models.Identity{
		UserID:      u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Ministry:    u.Ministry,
		RoleName:    r.Name,
		Permissions: keys,
	}, nil
}

// Logout records the event; tokens are stateless and simply discarded by
// the client.
func (s *AuthServiceImpl) Logout(ctx context.Context, identity *models.Identity) {
	s.Events.Record(ctx, identity, fmt.Sprintf("User '%s' logged out", identity.Username))
}
