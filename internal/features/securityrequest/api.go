package securityrequest

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/models"
	"go-pdx/internal/middleware"
)

type SecurityRequestApi struct {
	controller *SecurityRequestController
	auth       *middleware.AuthMiddleware
}

func NewSecurityRequestApi(controller *SecurityRequestController, auth *middleware.AuthMiddleware) *SecurityRequestApi {
	return &SecurityRequestApi{controller: controller, auth: auth}
}

// Setup registers security request routes
func (h *SecurityRequestApi) Setup(app *fiber.App) {
	reqs := app.Group("/api/security-requests", h.auth.RequireAuth())

	// Any authenticated user may file a request.
	reqs.Post("/", h.controller.Submit)

	// Reads are ministry-scoped inside the service.
	reqs.Get("/", h.auth.RequirePermission(models.PermViewSecurityRequests), h.controller.List)
	reqs.Get("/:id", h.auth.RequirePermission(models.PermViewSecurityRequests), h.controller.Get)
	reqs.Patch("/:id/status", h.auth.RequirePermission(models.PermManageSecurityRequests), h.controller.UpdateStatus)
	reqs.Delete("/:id", h.auth.RequirePermission(models.PermManageSecurityRequests), h.controller.Delete)
}
