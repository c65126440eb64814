package securityrequest

import (
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/models"
	"go-pdx/internal/features/systemevent"
)

type mockRequestRepo struct {
	reqs []*SecurityRequest
}

func (m *mockRequestRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (m *mockRequestRepo) Create(ctx context.Context, r *SecurityRequest) error {
	r.ID = primitive.NewObjectID()
	clone := *r
	m.reqs = append(m.reqs, &clone)
	return nil
}

func (m *mockRequestRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*SecurityRequest, error) {
	for _, r := range m.reqs {
		if r.ID == id {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockRequestRepo) Find(ctx context.Context, filter bson.M) ([]SecurityRequest, error) {
	out := make([]SecurityRequest, 0)
	for _, r := range m.reqs {
		if requestMatches(r, filter) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func requestMatches(r *SecurityRequest, filter bson.M) bool {
	for key, want := range filter {
		switch key {
		case "requestor.current_ministry":
			if r.Requestor.CurrentMinistry != want.(string) {
				return false
			}
		case "status":
			if r.Status != want.(string) {
				return false
			}
		}
	}
	return true
}

func (m *mockRequestRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, update bson.M) (*SecurityRequest, error) {
	for _, r := range m.reqs {
		if r.ID == id {
			if v, ok := update["status"]; ok {
				r.Status = v.(string)
			}
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockRequestRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, r := range m.reqs {
		if r.ID == id {
			m.reqs = append(m.reqs[:i], m.reqs[i+1:]...)
			return nil
		}
	}
	return nil
}

type mockEvents struct {
	actions []string
}

func (m *mockEvents) Record(ctx context.Context, actor *models.Identity, action string) {
	m.actions = append(m.actions, action)
}
func (m *mockEvents) RecordSystem(ctx context.Context, action string) {
	m.actions = append(m.actions, action)
}
func (m *mockEvents) List(ctx context.Context, page, limit int64) (*systemevent.EventPage, error) {
	return nil, nil
}
func (m *mockEvents) ExportReport(ctx context.Context) (*excelize.File, error) { return nil, nil }

func newTestService() (*SecurityRequestServiceImpl, *mockRequestRepo, *mockEvents) {
	repo := &mockRequestRepo{}
	events := &mockEvents{}
	return &SecurityRequestServiceImpl{Repo: repo, Events: events}, repo, events
}

func admin() *models.Identity {
	return &models.Identity{UserID: primitive.NewObjectID(), Username: "root", RoleName: models.RoleSuperAdmin}
}

func officer(ministry string) *models.Identity {
	return &models.Identity{
		UserID:      primitive.NewObjectID(),
		Username:    "officer-" + ministry,
		Ministry:    ministry,
		RoleName:    "hcm-officer",
		Permissions: []string{models.PermViewSecurityRequests, models.PermManageSecurityRequests},
	}
}

func submitFor(t *testing.T, svc *SecurityRequestServiceImpl, actor *models.Identity, ministry string) *SecurityRequest {
	t.Helper()
	sr, err := svc.Submit(context.Background(), actor, &SubmitSecurityRequestRequest{
		Requestor: RequestorInfo{
			FirstName:       "Abu",
			LastName:        "Kamara",
			ContactNumber:   "076000000",
			EmployeeID:      "EM-1001",
			CurrentMinistry: ministry,
		},
		Email: EmailSecurity{CreateAccount: true, RequestedEmail: "abu.kamara@gov.test"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return sr
}

func TestSubmitDefaultsToPendingReview(t *testing.T) {
	svc, repo, events := newTestService()
	actor := officer("Finance")

	sr := submitFor(t, svc, actor, "Finance")
	if sr.Status != StatusPendingReview {
		t.Errorf("status = %q, want %q", sr.Status, StatusPendingReview)
	}
	if sr.SubmittedBy == nil || *sr.SubmittedBy != actor.UserID {
		t.Error("request not stamped with the submitting user")
	}
	if len(repo.reqs) != 1 {
		t.Fatalf("expected 1 stored request, got %d", len(repo.reqs))
	}
	if len(events.actions) != 1 {
		t.Errorf("expected one audit event, got %v", events.actions)
	}
}

func TestSubmitRequiresSession(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Submit(context.Background(), nil, &SubmitSecurityRequestRequest{})
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized without a session, got %v", err)
	}
}

func TestListScopedToMinistryForNonAdmins(t *testing.T) {
	svc, _, _ := newTestService()
	submitFor(t, svc, officer("Finance"), "Finance")
	submitFor(t, svc, officer("Health"), "Health")
	submitFor(t, svc, officer("Finance"), "Finance")

	finance, err := svc.List(context.Background(), officer("Finance"), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(finance) != 2 {
		t.Errorf("finance officer should see 2 requests, got %d", len(finance))
	}
	for _, r := range finance {
		if r.Requestor.CurrentMinistry != "Finance" {
			t.Errorf("out-of-ministry request leaked: %+v", r.Requestor)
		}
	}

	all, err := svc.List(context.Background(), admin(), "")
	if err != nil {
		t.Fatalf("List as admin: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("admin should see all 3 requests, got %d", len(all))
	}
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _, _ := newTestService()
	first := submitFor(t, svc, officer("Finance"), "Finance")
	submitFor(t, svc, officer("Finance"), "Finance")

	if _, err := svc.UpdateStatus(context.Background(), admin(), first.ID.Hex(),
		&UpdateStatusRequest{Status: StatusApproved}); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	approved, err := svc.List(context.Background(), admin(), StatusApproved)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(approved) != 1 || approved[0].ID != first.ID {
		t.Errorf("expected only the approved request, got %v", approved)
	}

	if _, err := svc.List(context.Background(), admin(), "Pending HOD Review"); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("unknown status filter should be rejected, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService()
	sr := submitFor(t, svc, officer("Finance"), "Finance")

	_, err := svc.UpdateStatus(context.Background(), admin(), sr.ID.Hex(),
		&UpdateStatusRequest{Status: "Escalated"})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestForeignMinistryReadsAsNotFound(t *testing.T) {
	svc, repo, _ := newTestService()
	sr := submitFor(t, svc, officer("Finance"), "Finance")

	health := officer("Health")
	if _, err := svc.Get(context.Background(), health, sr.ID.Hex()); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("foreign-ministry Get should read as not found, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), health, sr.ID.Hex(),
		&UpdateStatusRequest{Status: StatusApproved}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("foreign-ministry UpdateStatus should read as not found, got %v", err)
	}
	if err := svc.Delete(context.Background(), health, sr.ID.Hex()); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("foreign-ministry Delete should read as not found, got %v", err)
	}

	// Same-ministry reviewers and admins retain access.
	if _, err := svc.Get(context.Background(), officer("Finance"), sr.ID.Hex()); err != nil {
		t.Errorf("same-ministry Get failed: %v", err)
	}
	if err := svc.Delete(context.Background(), admin(), sr.ID.Hex()); err != nil {
		t.Errorf("admin Delete failed: %v", err)
	}
	if len(repo.reqs) != 0 {
		t.Error("request should be gone after admin delete")
	}
}
