package folder

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/validate"
	"go-pdx/internal/middleware"
)

type FolderController struct {
	FolderService FolderService
	Generator     ArchiveGenerator
}

func NewFolderController(service FolderService, generator ArchiveGenerator) *FolderController {
	return &FolderController{FolderService: service, Generator: generator}
}

func (ctrl *FolderController) ListByGroup(c *fiber.Ctx) error {
	folders, err := ctrl.FolderService.ListByGroup(c.Context(),
		middleware.IdentityFromCtx(c),
		c.Params("group"),
		c.QueryBool("include_inactive", false))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(folders)
}

// ListChildren lists the direct children of the folder at the given
// page path. Paths contain slashes, so they travel as a query param.
func (ctrl *FolderController) ListChildren(c *fiber.Ctx) error {
	parentPath := c.Query("parent_path")
	if parentPath == "" {
		return apperr.Validation("parent_path is required")
	}

	folders, err := ctrl.FolderService.ListChildren(c.Context(),
		middleware.IdentityFromCtx(c),
		parentPath,
		c.QueryBool("include_inactive", false))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(folders)
}

func (ctrl *FolderController) GetByPath(c *fiber.Ctx) error {
	page := c.Query("page")
	if page == "" {
		return apperr.Validation("page is required")
	}

	f, err := ctrl.FolderService.GetByPath(c.Context(), middleware.IdentityFromCtx(c), page)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(f)
}

func (ctrl *FolderController) CreateFolder(c *fiber.Ctx) error {
	var req CreateFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return err
	}

	f, err := ctrl.FolderService.CreateFolder(c.Context(), middleware.IdentityFromCtx(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}

func (ctrl *FolderController) UpdateFolder(c *fiber.Ctx) error {
	var req UpdateFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	f, err := ctrl.FolderService.UpdateFolder(c.Context(), middleware.IdentityFromCtx(c), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(f)
}

func (ctrl *FolderController) DeleteFolder(c *fiber.Ctx) error {
	if err := ctrl.FolderService.DeleteFolder(c.Context(), middleware.IdentityFromCtx(c), c.Params("id")); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "folder deleted"})
}

func (ctrl *FolderController) ReorderFolders(c *fiber.Ctx) error {
	var req ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return err
	}

	result, err := ctrl.FolderService.Reorder(c.Context(), middleware.IdentityFromCtx(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (ctrl *FolderController) GenerateArchive(c *fiber.Ctx) error {
	result, err := ctrl.Generator.Generate(c.Context(), middleware.IdentityFromCtx(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
