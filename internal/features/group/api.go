package group

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/models"
	"go-pdx/internal/middleware"
)

type GroupApi struct {
	controller *GroupController
	auth       *middleware.AuthMiddleware
}

func NewGroupApi(controller *GroupController, auth *middleware.AuthMiddleware) *GroupApi {
	return &GroupApi{controller: controller, auth: auth}
}

// Setup registers group routes
func (h *GroupApi) Setup(app *fiber.App) {
	groups := app.Group("/api/groups", h.auth.RequireAuth())

	groups.Get("/", h.auth.RequirePermission(models.PermViewAllFolders), h.controller.ListGroups)
	groups.Get("/stats", h.auth.RequirePermission(models.PermViewAllFolders), h.controller.ListGroupStats)
	groups.Post("/", h.auth.RequirePermission(models.PermCreateFolders), h.controller.CreateGroup)
	groups.Get("/:id", h.auth.RequirePermission(models.PermViewAllFolders), h.controller.GetGroup)
	groups.Put("/:id", h.auth.RequirePermission(models.PermEditFolders), h.controller.UpdateGroup)
	groups.Delete("/:id", h.auth.RequirePermission(models.PermDeleteFolders), h.controller.DeleteGroup)
}
