package systemevent

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-pdx/internal/common/models"
)

type mockEventRepo struct {
	events    []SystemEvent
	createErr error
}

func (m *mockEventRepo) Create(ctx context.Context, event *SystemEvent) error {
	if m.createErr != nil {
		return m.createErr
	}
	event.ID = primitive.NewObjectID()
	// Newest first, matching the collection sort.
	m.events = append([]SystemEvent{*event}, m.events...)
	return nil
}

func (m *mockEventRepo) List(ctx context.Context, limit, offset int64) ([]SystemEvent, error) {
	if offset >= int64(len(m.events)) {
		return []SystemEvent{}, nil
	}
	out := m.events[offset:]
	if limit > 0 && limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockEventRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.events)), nil
}

func newTestService(repo *mockEventRepo) *SystemEventServiceImpl {
	return &SystemEventServiceImpl{Repo: repo, Logger: zap.NewNop()}
}

func TestRecordStampsActor(t *testing.T) {
	repo := &mockEventRepo{}
	svc := newTestService(repo)

	actor := &models.Identity{
		UserID:    primitive.NewObjectID(),
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Mansaray",
	}
	svc.Record(context.Background(), actor, "Created folder 'January 2026'")

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Action != "Created folder 'January 2026'" {
		t.Errorf("unexpected action: %q", ev.Action)
	}
	if ev.PerformedBy == nil || *ev.PerformedBy != actor.UserID {
		t.Error("event not attributed to the acting user")
	}
	if ev.PerformedByName != "Alice Mansaray" {
		t.Errorf("unexpected actor name: %q", ev.PerformedByName)
	}
}

func TestRecordSystemUsesJobActor(t *testing.T) {
	repo := &mockEventRepo{}
	svc := newTestService(repo)

	svc.RecordSystem(context.Background(), "Archive generation job started")

	ev := repo.events[0]
	if ev.PerformedBy != nil {
		t.Error("system events carry no user reference")
	}
	if ev.PerformedByName != models.SystemActorName {
		t.Errorf("unexpected actor name: %q", ev.PerformedByName)
	}
}

func TestRecordSwallowsRepositoryErrors(t *testing.T) {
	repo := &mockEventRepo{createErr: errors.New("connection reset")}
	svc := newTestService(repo)

	// Must not panic or propagate; the caller's operation already
	// succeeded by the time the event is written.
	svc.Record(context.Background(), &models.Identity{Username: "alice"}, "Deleted folder 'Old'")
	svc.RecordSystem(context.Background(), "Archive generation job started")
}

func TestListPaginates(t *testing.T) {
	repo := &mockEventRepo{}
	svc := newTestService(repo)

	for i := 0; i < 45; i++ {
		svc.RecordSystem(context.Background(), "event")
	}

	page, err := svc.List(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.TotalEvents != 45 || page.TotalPages != 3 || page.CurrentPage != 1 {
		t.Errorf("unexpected page math: %+v", page)
	}
	if len(page.Events) != 20 {
		t.Errorf("expected 20 events on page 1, got %d", len(page.Events))
	}

	last, err := svc.List(context.Background(), 3, 20)
	if err != nil {
		t.Fatalf("List page 3: %v", err)
	}
	if len(last.Events) != 5 {
		t.Errorf("expected 5 events on the last page, got %d", len(last.Events))
	}
}

func TestListClampsBadArguments(t *testing.T) {
	repo := &mockEventRepo{}
	svc := newTestService(repo)
	svc.RecordSystem(context.Background(), "event")

	page, err := svc.List(context.Background(), 0, -5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.CurrentPage != 1 {
		t.Errorf("page should clamp to 1, got %d", page.CurrentPage)
	}
	if len(page.Events) != 1 {
		t.Errorf("expected the single event, got %d", len(page.Events))
	}
}

func TestExportReportWritesRows(t *testing.T) {
	repo := &mockEventRepo{}
	svc := newTestService(repo)

	actor := &models.Identity{UserID: primitive.NewObjectID(), Username: "alice"}
	svc.Record(context.Background(), actor, "User 'alice' logged in")

	f, err := svc.ExportReport(context.Background())
	if err != nil {
		t.Fatalf("ExportReport: %v", err)
	}

	const sheet = "System Events"
	header, err := f.GetCellValue(sheet, "B1")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if header != "Action" {
		t.Errorf("unexpected header: %q", header)
	}

	action, _ := f.GetCellValue(sheet, "B2")
	if action != "User 'alice' logged in" {
		t.Errorf("unexpected action cell: %q", action)
	}
	userID, _ := f.GetCellValue(sheet, "D2")
	if userID != actor.UserID.Hex() {
		t.Errorf("unexpected user id cell: %q", userID)
	}
}

func TestReportFileName(t *testing.T) {
	at := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
	if got := ReportFileName(at); got != "system-events-2026-09-01.xlsx" {
		t.Errorf("unexpected file name: %q", got)
	}
}
