package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/models"
)

// IdentityKey is the fiber.Ctx locals key holding the resolved caller identity.
const IdentityKey = "identity"

// SessionResolver turns a bearer token into a fully populated identity.
// Satisfied by the auth service; declared here to avoid an import cycle.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.Identity, error)
}

type AuthMiddleware struct {
	Resolver SessionResolver
	Logger   *zap.Logger
}

func NewAuthMiddleware(resolver SessionResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{Resolver: resolver, Logger: logger}
}

// RequireAuth resolves the Authorization header against live user and role
// records on every request, so role or permission edits take effect
// immediately rather than at next login.
func (m *AuthMiddleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return apperr.Unauthorized("Unauthorized: No token provided")
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			return apperr.Unauthorized("Unauthorized: Invalid authorization header")
		}

		identity, err := m.Resolver.ResolveSession(c.Context(), token)
		if err != nil {
			return err
		}

		c.Locals(IdentityKey, identity)
		return c.Next()
	}
}

// RequirePermission gates a route on one permission key. Must run after
// RequireAuth. Super-admins pass unconditionally.
func (m *AuthMiddleware) RequirePermission(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := IdentityFromCtx(c)
		if identity == nil {
			return apperr.Unauthorized("Unauthorized: No session")
		}
		if !identity.HasPermission(key) {
			m.Logger.Warn("permission denied",
				zap.String("username", identity.Username),
				zap.String("permission", key),
				zap.String("path", c.Path()))
			return apperr.Forbidden("Forbidden: You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// IdentityFromCtx returns the identity stored by RequireAuth, or nil.
func IdentityFromCtx(c *fiber.Ctx) *models.Identity {
	identity, _ := c.Locals(IdentityKey).(*models.Identity)
	return identity
}
