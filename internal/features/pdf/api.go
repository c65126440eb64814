package pdf

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/models"
	"go-pdx/internal/middleware"
)

type PDFApi struct {
	controller *PDFController
	auth       *middleware.AuthMiddleware
}

func NewPDFApi(controller *PDFController, auth *middleware.AuthMiddleware) *PDFApi {
	return &PDFApi{controller: controller, auth: auth}
}

// Setup registers PDF routes
func (h *PDFApi) Setup(app *fiber.App) {
	pdfs := app.Group("/api/pdfs", h.auth.RequireAuth())

	pdfs.Get("/", h.controller.ListPDFs)
	pdfs.Post("/", h.auth.RequirePermission(models.PermUploadPayrollPDFs), h.controller.UploadPDF)
	pdfs.Get("/:id", h.controller.ViewPDF)
	pdfs.Delete("/:id", h.auth.RequirePermission(models.PermDeletePayrollPDFs), h.controller.DeletePDF)
}
