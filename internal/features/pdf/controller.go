package pdf

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/middleware"
)

type PDFController struct {
	PDFService PDFService
}

func NewPDFController(service PDFService) *PDFController {
	return &PDFController{PDFService: service}
}

func (ctrl *PDFController) UploadPDF(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperr.Validation("multipart field 'file' is required")
	}

	file, err := ctrl.PDFService.Upload(c.Context(), middleware.IdentityFromCtx(c), header)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(file)
}

func (ctrl *PDFController) ListPDFs(c *fiber.Ctx) error {
	files, err := ctrl.PDFService.List(c.Context(), middleware.IdentityFromCtx(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(files)
}

func (ctrl *PDFController) ViewPDF(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)
	id := c.Params("id")

	file, err := ctrl.PDFService.Stat(c.Context(), identity, id)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`inline; filename=%q`, file.Metadata.OriginalName))
	return ctrl.PDFService.Stream(c.Context(), identity, id, c.Response().BodyWriter())
}

func (ctrl *PDFController) DeletePDF(c *fiber.Ctx) error {
	if err := ctrl.PDFService.Delete(c.Context(), middleware.IdentityFromCtx(c), c.Params("id")); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "file deleted"})
}
