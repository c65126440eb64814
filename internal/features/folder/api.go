package folder

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/models"
	"go-pdx/internal/middleware"
)

type FolderApi struct {
	controller *FolderController
	auth       *middleware.AuthMiddleware
}

func NewFolderApi(controller *FolderController, auth *middleware.AuthMiddleware) *FolderApi {
	return &FolderApi{controller: controller, auth: auth}
}

// Setup registers folder routes
func (h *FolderApi) Setup(app *fiber.App) {
	folders := app.Group("/api/folders", h.auth.RequireAuth())

	// Reads are permission-filtered inside the service; any
	// authenticated caller may ask.
	folders.Get("/children", h.controller.ListChildren)
	folders.Get("/path", h.controller.GetByPath)
	folders.Get("/group/:group", h.controller.ListByGroup)

	manage := folders.Group("/manage")
	manage.Post("/", h.auth.RequirePermission(models.PermCreateFolders), h.controller.CreateFolder)
	manage.Put("/reorder", h.auth.RequirePermission(models.PermEditFolders), h.controller.ReorderFolders)
	manage.Put("/:id", h.auth.RequirePermission(models.PermEditFolders), h.controller.UpdateFolder)
	manage.Delete("/:id", h.auth.RequirePermission(models.PermDeleteFolders), h.controller.DeleteFolder)

	folders.Post("/generate-archive", h.auth.RequirePermission(models.PermCreateFolders), h.controller.GenerateArchive)
}
