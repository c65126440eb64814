package auth

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/middleware"
)

type AuthApi struct {
	controller *AuthController
	auth       *middleware.AuthMiddleware
}

func NewAuthApi(controller *AuthController, auth *middleware.AuthMiddleware) *AuthApi {
	return &AuthApi{controller: controller, auth: auth}
}

// Setup registers auth routes
func (h *AuthApi) Setup(app *fiber.App) {
	routes := app.Group("/api/auth")

	routes.Post("/login", h.controller.Login)
	routes.Post("/logout", h.auth.RequireAuth(), h.controller.Logout)
	routes.Get("/me", h.auth.RequireAuth(), h.controller.Me)
}
