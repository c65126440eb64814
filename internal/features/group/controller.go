package group

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/validate"
	"go-pdx/internal/middleware"
)

type GroupController struct {
	GroupService GroupService
}

func NewGroupController(service GroupService) *GroupController {
	return &GroupController{GroupService: service}
}

func (ctrl *GroupController) CreateGroup(c *fiber.Ctx) error {
	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return err
	}

	g, err := ctrl.GroupService.CreateGroup(c.Context(), middleware.IdentityFromCtx(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(g)
}

func (ctrl *GroupController) GetGroup(c *fiber.Ctx) error {
	g, err := ctrl.GroupService.GetGroup(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(g)
}

func (ctrl *GroupController) ListGroups(c *fiber.Ctx) error {
	groups, err := ctrl.GroupService.ListGroups(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(groups)
}

func (ctrl *GroupController) ListGroupStats(c *fiber.Ctx) error {
	stats, err := ctrl.GroupService.ListGroupStats(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}

func (ctrl *GroupController) UpdateGroup(c *fiber.Ctx) error {
	var req UpdateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	g, err := ctrl.GroupService.UpdateGroup(c.Context(), middleware.IdentityFromCtx(c), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(g)
}

func (ctrl *GroupController) DeleteGroup(c *fiber.Ctx) error {
	if err := ctrl.GroupService.DeleteGroup(c.Context(), middleware.IdentityFromCtx(c), c.Params("id")); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "group deleted"})
}
