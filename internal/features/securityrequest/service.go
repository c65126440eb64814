package securityrequest

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/models"
	"go-pdx/internal/features/systemevent"
)

type SecurityRequestService interface {
	Submit(ctx context.Context, actor *models.Identity, req *SubmitSecurityRequestRequest) (*SecurityRequest, error)
	Get(ctx context.Context, identity *models.Identity, id string) (*SecurityRequest, error)
	// List returns all requests for admins; everyone else sees only the
	// requests filed for their own ministry.
	List(ctx context.Context, identity *models.Identity, status string) ([]SecurityRequest, error)
	UpdateStatus(ctx context.Context, actor *models.Identity, id string, req *UpdateStatusRequest) (*SecurityRequest, error)
	Delete(ctx context.Context, actor *models.Identity, id string) error
}

type SecurityRequestServiceImpl struct {
	Repo   SecurityRequestRepository
	Events systemevent.SystemEventService
}

func NewSecurityRequestService(repo SecurityRequestRepository, events systemevent.SystemEventService) SecurityRequestService {
	return &SecurityRequestServiceImpl{
		Repo:   repo,
		Events: events,
	}
}

func (s *SecurityRequestServiceImpl) Submit(ctx context.Context, actor *models.Identity, req *SubmitSecurityRequestRequest) (*SecurityRequest, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("Unauthorized: No session")
	}

	now := time.Now().UTC()
	sr := &SecurityRequest{
		Status:          StatusPendingReview,
		SubmittedByName: actor.DisplayName(),
		Requestor:       req.Requestor,
		Email:           req.Email,
		Network:         req.Network,
		CloudSuite:      req.CloudSuite,
		VPN:             req.VPN,
		SelectedOptions: req.SelectedOptions,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	uid := actor.UserID
	sr.SubmittedBy = &uid

	if err := s.Repo.Create(ctx, sr); err != nil {
		return nil, err
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Submitted security request for '%s %s' (%s)",
		sr.Requestor.FirstName, sr.Requestor.LastName, sr.Requestor.CurrentMinistry))
	return sr, nil
}

// ministryFilter is the visibility constraint for listing: admins see
// everything, other reviewers only requests filed for their ministry.
func ministryFilter(identity *models.Identity) bson.M {
	if identity != nil && identity.IsAdmin() {
		return bson.M{}
	}
	ministry := ""
	if identity != nil {
		ministry = identity.Ministry
	}
	return bson.M{"requestor.current_ministry": ministry}
}

func (s *SecurityRequestServiceImpl) List(ctx context.Context, identity *models.Identity, status string) ([]SecurityRequest, error) {
	filter := ministryFilter(identity)
	if status != "" {
		if !ValidStatus(status) {
			return nil, apperr.Validation(fmt.Sprintf("unknown status '%s'", status))
		}
		filter["status"] = status
	}
	return s.Repo.Find(ctx, filter)
}

func (s *SecurityRequestServiceImpl) Get(ctx context.Context, identity *models.Identity, id string) (*SecurityRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid security request id")
	}

	sr, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if sr == nil {
		return nil, apperr.NotFound("security request not found")
	}
	if identity == nil || (!identity.IsAdmin() && sr.Requestor.CurrentMinistry != identity.Ministry) {
		// Out-of-ministry requests read as absent.
		return nil, apperr.NotFound("security request not found")
	}
	return sr, nil
}

func (s *SecurityRequestServiceImpl) UpdateStatus(ctx context.Context, actor *models.Identity, id string, req *UpdateStatusRequest) (*SecurityRequest, error) {
	if !ValidStatus(req.Status) {
		return nil, apperr.Validation(fmt.Sprintf("unknown status '%s'", req.Status))
	}

	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	sr, err := s.Repo.UpdateStatus(ctx, existing.ID, bson.M{
		"status":     req.Status,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if sr == nil {
		return nil, apperr.NotFound("security request not found")
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Security request for '%s %s' moved to '%s'",
		sr.Requestor.FirstName, sr.Requestor.LastName, sr.Status))
	return sr, nil
}

func (s *SecurityRequestServiceImpl) Delete(ctx context.Context, actor *models.Identity, id string) error {
	sr, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, sr.ID); err != nil {
		return err
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Deleted security request for '%s %s'",
		sr.Requestor.FirstName, sr.Requestor.LastName))
	return nil
}
