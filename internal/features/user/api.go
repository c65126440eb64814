package user

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/models"
	"go-pdx/internal/middleware"
)

type UserApi struct {
	controller *UserController
	auth       *middleware.AuthMiddleware
}

func NewUserApi(controller *UserController, auth *middleware.AuthMiddleware) *UserApi {
	return &UserApi{controller: controller, auth: auth}
}

// Setup registers user routes
func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users", h.auth.RequireAuth())

	users.Get("/", h.auth.RequirePermission(models.PermViewAllUsers), h.controller.ListUsers)
	users.Post("/", h.auth.RequirePermission(models.PermCreateUsers), h.controller.CreateUser)
	users.Get("/:id", h.auth.RequirePermission(models.PermViewAllUsers), h.controller.GetUser)
	users.Put("/:id", h.auth.RequirePermission(models.PermEditUsers), h.controller.UpdateUser)
	users.Delete("/:id", h.auth.RequirePermission(models.PermDeleteUsers), h.controller.DeleteUser)
}
