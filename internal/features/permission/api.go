package permission

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/models"
	"go-pdx/internal/middleware"
)

type PermissionApi struct {
	controller *PermissionController
	auth       *middleware.AuthMiddleware
}

func NewPermissionApi(controller *PermissionController, auth *middleware.AuthMiddleware) *PermissionApi {
	return &PermissionApi{controller: controller, auth: auth}
}

// Setup registers permission routes
func (h *PermissionApi) Setup(app *fiber.App) {
	perms := app.Group("/api/permissions", h.auth.RequireAuth())

	perms.Get("/", h.auth.RequirePermission(models.PermViewAllPermissions), h.controller.ListPermissions)
	perms.Post("/", h.auth.RequirePermission(models.PermDefinePermissions), h.controller.CreatePermission)
	perms.Get("/:id", h.auth.RequirePermission(models.PermViewAllPermissions), h.controller.GetPermission)
	perms.Put("/:id", h.auth.RequirePermission(models.PermModifyPermissions), h.controller.UpdatePermission)
	perms.Delete("/:id", h.auth.RequirePermission(models.PermDeletePermissions), h.controller.DeletePermission)
}
