package submission

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/validate"
	"go-pdx/internal/middleware"
)

type SubmissionController struct {
	SubmissionService SubmissionService
}

func NewSubmissionController(service SubmissionService) *SubmissionController {
	return &SubmissionController{SubmissionService: service}
}

func (ctrl *SubmissionController) CreateSubmission(c *fiber.Ctx) error {
	var req CreateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return err
	}

	sub, err := ctrl.SubmissionService.CreateSubmission(c.Context(), middleware.IdentityFromCtx(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (ctrl *SubmissionController) GetSubmission(c *fiber.Ctx) error {
	sub, err := ctrl.SubmissionService.GetSubmission(c.Context(), middleware.IdentityFromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(sub)
}

func (ctrl *SubmissionController) ListSubmissions(c *fiber.Ctx) error {
	subs, err := ctrl.SubmissionService.ListSubmissions(c.Context(), middleware.IdentityFromCtx(c), c.Query("status"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(subs)
}

func (ctrl *SubmissionController) ListByFolder(c *fiber.Ctx) error {
	subs, err := ctrl.SubmissionService.ListByFolder(c.Context(), middleware.IdentityFromCtx(c), c.Params("folderId"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(subs)
}

func (ctrl *SubmissionController) TransitionSubmission(c *fiber.Ctx) error {
	var req TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return err
	}

	sub, err := ctrl.SubmissionService.Transition(c.Context(), middleware.IdentityFromCtx(c), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(sub)
}

func (ctrl *SubmissionController) AddAttachment(c *fiber.Ctx) error {
	var req AddAttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return err
	}

	sub, err := ctrl.SubmissionService.AddAttachment(c.Context(), middleware.IdentityFromCtx(c), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(sub)
}

func (ctrl *SubmissionController) DeleteSubmission(c *fiber.Ctx) error {
	if err := ctrl.SubmissionService.DeleteSubmission(c.Context(), middleware.IdentityFromCtx(c), c.Params("id")); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "submission deleted"})
}
