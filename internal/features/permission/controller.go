package permission

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/validate"
	"go-pdx/internal/middleware"
)

type PermissionController struct {
	PermissionService PermissionService
}

func NewPermissionController(service PermissionService) *PermissionController {
	return &PermissionController{PermissionService: service}
}

func (ctrl *PermissionController) CreatePermission(c *fiber.Ctx) error {
	var req CreatePermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return err
	}

	p, err := ctrl.PermissionService.CreatePermission(c.Context(), middleware.IdentityFromCtx(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (ctrl *PermissionController) GetPermission(c *fiber.Ctx) error {
	p, err := ctrl.PermissionService.GetPermission(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(p)
}

func (ctrl *PermissionController) ListPermissions(c *fiber.Ctx) error {
	perms, err := ctrl.PermissionService.ListPermissions(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(perms)
}

func (ctrl *PermissionController) UpdatePermission(c *fiber.Ctx) error {
	var req UpdatePermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	p, err := ctrl.PermissionService.UpdatePermission(c.Context(), middleware.IdentityFromCtx(c), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(p)
}

func (ctrl *PermissionController) DeletePermission(c *fiber.Ctx) error {
	if err := ctrl.PermissionService.DeletePermission(c.Context(), middleware.IdentityFromCtx(c), c.Params("id")); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "permission deleted"})
}
