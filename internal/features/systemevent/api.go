package systemevent

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/models"
	"go-pdx/internal/middleware"
)

type SystemEventApi struct {
	controller *SystemEventController
	auth       *middleware.AuthMiddleware
}

func NewSystemEventApi(controller *SystemEventController, auth *middleware.AuthMiddleware) *SystemEventApi {
	return &SystemEventApi{controller: controller, auth: auth}
}

// Setup registers system event routes
func (h *SystemEventApi) Setup(app *fiber.App) {
	events := app.Group("/api/system-events", h.auth.RequireAuth())

	events.Get("/", h.auth.RequirePermission(models.PermViewSystemEvents), h.controller.ListEvents)
	events.Get("/export", h.auth.RequirePermission(models.PermGenerateEventReports), h.controller.ExportEvents)
}
