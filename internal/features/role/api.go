package role

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/models"
	"go-pdx/internal/middleware"
)

type RoleApi struct {
	controller *RoleController
	auth       *middleware.AuthMiddleware
}

func NewRoleApi(controller *RoleController, auth *middleware.AuthMiddleware) *RoleApi {
	return &RoleApi{controller: controller, auth: auth}
}

// Setup registers role routes
func (h *RoleApi) Setup(app *fiber.App) {
	roles := app.Group("/api/roles", h.auth.RequireAuth())

	roles.Get("/", h.auth.RequirePermission(models.PermViewRoles), h.controller.ListRoles)
	roles.Post("/", h.auth.RequirePermission(models.PermDefineRoles), h.controller.CreateRole)
	roles.Get("/:id", h.auth.RequirePermission(models.PermViewRoles), h.controller.GetRole)
	roles.Put("/:id", h.auth.RequirePermission(models.PermModifyRoles), h.controller.UpdateRole)
	roles.Delete("/:id", h.auth.RequirePermission(models.PermDeleteRoles), h.controller.DeleteRole)
}
