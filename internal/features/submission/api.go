package submission

import (
	"github.com/gofiber/fiber/v2"

	"go-pdx/internal/common/models"
	"go-pdx/internal/middleware"
)

type SubmissionApi struct {
	controller *SubmissionController
	auth       *middleware.AuthMiddleware
}

func NewSubmissionApi(controller *SubmissionController, auth *middleware.AuthMiddleware) *SubmissionApi {
	return &SubmissionApi{controller: controller, auth: auth}
}

// Setup registers submission routes
func (h *SubmissionApi) Setup(app *fiber.App) {
	subs := app.Group("/api/submissions", h.auth.RequireAuth())

	// Reads are ownership-scoped inside the service.
	subs.Get("/", h.controller.ListSubmissions)
	subs.Post("/", h.auth.RequirePermission(models.PermSubmitForms), h.controller.CreateSubmission)
	subs.Get("/folder/:folderId", h.controller.ListByFolder)
	subs.Get("/:id", h.controller.GetSubmission)
	subs.Post("/:id/attachments", h.auth.RequirePermission(models.PermUploadDocuments), h.controller.AddAttachment)
	subs.Put("/:id/status", h.auth.RequirePermission(models.PermViewAllForms), h.controller.TransitionSubmission)
	subs.Delete("/:id", h.auth.RequirePermission(models.PermViewAllForms), h.controller.DeleteSubmission)
}
