package securityrequest

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/validate"
	"go-pdx/internal/middleware"
)

type SecurityRequestController struct {
	Service SecurityRequestService
}

func NewSecurityRequestController(service SecurityRequestService) *SecurityRequestController {
	return &SecurityRequestController{Service: service}
}

func (ctrl *SecurityRequestController) Submit(c *fiber.Ctx) error {
	var req SubmitSecurityRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return err
	}

	sr, err := ctrl.Service.Submit(c.Context(), middleware.IdentityFromCtx(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(sr)
}

func (ctrl *SecurityRequestController) List(c *fiber.Ctx) error {
	reqs, err := ctrl.Service.List(c.Context(), middleware.IdentityFromCtx(c), c.Query("status"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(reqs)
}

func (ctrl *SecurityRequestController) Get(c *fiber.Ctx) error {
	sr, err := ctrl.Service.Get(c.Context(), middleware.IdentityFromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(sr)
}

func (ctrl *SecurityRequestController) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return err
	}

	sr, err := ctrl.Service.UpdateStatus(c.Context(), middleware.IdentityFromCtx(c), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(sr)
}

func (ctrl *SecurityRequestController) Delete(c *fiber.Ctx) error {
	if err := ctrl.Service.Delete(c.Context(), middleware.IdentityFromCtx(c), c.Params("id")); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "security request deleted"})
}
