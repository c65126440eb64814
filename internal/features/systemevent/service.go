package systemevent

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"go-pdx/internal/common/models"
)

// SystemEventService records and exposes the append-only audit trail.
// Record is fire-and-forget: a failed write must never fail the business
// operation that triggered it.
type SystemEventService interface {
	Record(ctx context.Context, actor *models.Identity, action string)
	RecordSystem(ctx context.Context, action string)
	List(ctx context.Context, page, limit int64) (*EventPage, error)
	ExportReport(ctx context.Context) (*excelize.File, error)
}

type SystemEventServiceImpl struct {
	Repo   SystemEventRepository
	Logger *zap.Logger
}

func NewSystemEventService(repo SystemEventRepository, logger *zap.Logger) SystemEventService {
	return &SystemEventServiceImpl{Repo: repo, Logger: logger}
}

func (s *SystemEventServiceImpl) Record(ctx context.Context, actor *models.Identity, action string) {
	event := &SystemEvent{
		Action:          action,
		PerformedByName: actor.DisplayName(),
		Timestamp:       time.Now().UTC(),
	}
	if actor != nil {
		uid := actor.UserID
		event.PerformedBy = &uid
	}
	if err := s.Repo.Create(ctx, event); err != nil {
		s.Logger.Error("failed to record system event",
			zap.String("action", action),
			zap.Error(err))
	}
}

// RecordSystem attributes an event to the automated job actor.
func (s *SystemEventServiceImpl) RecordSystem(ctx context.Context, action string) {
	event := &SystemEvent{
		Action:          action,
		PerformedByName: models.SystemActorName,
		Timestamp:       time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, event); err != nil {
		s.Logger.Error("failed to record system event",
			zap.String("action", action),
			zap.Error(err))
	}
}

func (s *SystemEventServiceImpl) List(ctx context.Context, page, limit int64) (*EventPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	total, err := s.Repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.Repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	return &EventPage{
		Events:      events,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalEvents: total,
	}, nil
}

// ExportReport renders the full event log, newest first, as a spreadsheet.
func (s *SystemEventServiceImpl) ExportReport(ctx context.Context) (*excelize.File, error) {
	events, err := s.Repo.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "System Events"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Timestamp", "Action", "Performed By", "User ID"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, ev := range events {
		row := i + 2
		userID := ""
		if ev.PerformedBy != nil {
			userID = ev.PerformedBy.Hex()
		}
		values := []interface{}{
			ev.Timestamp.Format(time.RFC3339),
			ev.Action,
			ev.PerformedByName,
			userID,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "B", 60)
	f.SetColWidth(sheet, "C", "D", 28)

	return f, nil
}

// ReportFileName returns a dated attachment name for the export download.
func ReportFileName(now time.Time) string {
	return fmt.Sprintf("system-events-%s.xlsx", now.Format("2006-01-02"))
}
