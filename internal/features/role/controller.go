package role

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/validate"
	"go-pdx/internal/middleware"
)

type RoleController struct {
	RoleService RoleService
}

func NewRoleController(service RoleService) *RoleController {
	return &RoleController{RoleService: service}
}

func (ctrl *RoleController) CreateRole(c *fiber.Ctx) error {
	var req CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return err
	}

	role, err := ctrl.RoleService.CreateRole(c.Context(), middleware.IdentityFromCtx(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(role)
}

func (ctrl *RoleController) GetRole(c *fiber.Ctx) error {
	role, err := ctrl.RoleService.GetRole(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(role)
}

func (ctrl *RoleController) ListRoles(c *fiber.Ctx) error {
	roles, err := ctrl.RoleService.ListRoles(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(roles)
}

func (ctrl *RoleController) UpdateRole(c *fiber.Ctx) error {
	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	role, err := ctrl.RoleService.UpdateRole(c.Context(), middleware.IdentityFromCtx(c), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(role)
}

func (ctrl *RoleController) DeleteRole(c *fiber.Ctx) error {
	if err := ctrl.RoleService.DeleteRole(c.Context(), middleware.IdentityFromCtx(c), c.Params("id")); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "role deleted"})
}
