package auth

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/validate"
	"go-pdx/internal/middleware"
)

type AuthController struct {
	AuthService AuthService
}

func NewAuthController(service AuthService) *AuthController {
	return &AuthController{AuthService: service}
}

func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return err
	}

	res, err := ctrl.AuthService.Authenticate(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)
	if identity != nil {
		ctrl.AuthService.Logout(c.Context(), identity)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "logged out"})
}

// Me returns the caller's live identity, re-resolved by the auth
// middleware on this request.
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(middleware.IdentityFromCtx(c))
}
