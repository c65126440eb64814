package systemevent

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

type SystemEventController struct {
	SystemEventService SystemEventService
}

func NewSystemEventController(service SystemEventService) *SystemEventController {
	return &SystemEventController{SystemEventService: service}
}

func (ctrl *SystemEventController) ListEvents(c *fiber.Ctx) error {
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))

	result, err := ctrl.SystemEventService.List(c.Context(), page, limit)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (ctrl *SystemEventController) ExportEvents(c *fiber.Ctx) error {
	report, err := ctrl.SystemEventService.ExportReport(c.Context())
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, ReportFileName(time.Now())))
	return report.Write(c.Response().BodyWriter())
}
