package submission

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/models"
	"go-pdx/internal/features/folder"
	"go-pdx/internal/features/systemevent"
)

const numberRetries = 3

type SubmissionService interface {
	CreateSubmission(ctx context.Context, actor *models.Identity, req *CreateSubmissionRequest) (*Submission, error)
	GetSubmission(ctx context.Context, actor *models.Identity, id string) (*Submission, error)
	// ListSubmissions is ownership-scoped: non-admin callers only ever
	// see their own submissions; the constraint is part of the query,
	// not a post-filter.
	ListSubmissions(ctx context.Context, actor *models.Identity, status string) ([]Submission, error)
	ListByFolder(ctx context.Context, actor *models.Identity, folderID string) ([]Submission, error)
	Transition(ctx context.Context, actor *models.Identity, id string, req *TransitionRequest) (*Submission, error)
	AddAttachment(ctx context.Context, actor *models.Identity, id string, req *AddAttachmentRequest) (*Submission, error)
	DeleteSubmission(ctx context.Context, actor *models.Identity, id string) error
}

type SubmissionServiceImpl struct {
	Repo       SubmissionRepository
	FolderRepo folder.FolderRepository
	Events     systemevent.SystemEventService
	now        func() time.Time
}

func NewSubmissionService(repo SubmissionRepository, folderRepo folder.FolderRepository, events systemevent.SystemEventService) SubmissionService {
	return &SubmissionServiceImpl{
		Repo:       repo,
		FolderRepo: folderRepo,
		Events:     events,
		now:        time.Now,
	}
}

// nextNumber builds a date-prefixed sequence number from the count of
// same-day submissions. Concurrent creators may collide on the unique
// index; the caller retries with a bumped sequence.
func (s *SubmissionServiceImpl) nextNumber(ctx context.Context, at time.Time, bump int64) (string, error) {
	dayStart := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	count, err := s.Repo.CountCreatedBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SUB-%s-%04d", at.Format("20060102"), count+1+bump), nil
}

func (s *SubmissionServiceImpl) CreateSubmission(ctx context.Context, actor *models.Identity, req *CreateSubmissionRequest) (*Submission, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("Unauthorized: No session")
	}

	folderID, err := primitive.ObjectIDFromHex(req.TargetFolder)
	if err != nil {
		return nil, apperr.Validation("invalid target folder id")
	}
	target, err := s.FolderRepo.FindByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperr.Validation("target folder does not exist")
	}

	now := s.now().UTC()
	uid := actor.UserID

	var sub *Submission
	for attempt := int64(0); attempt < numberRetries; attempt++ {
		number, err := s.nextNumber(ctx, now, attempt)
		if err != nil {
			return nil, err
		}

		sub = &Submission{
			SubmissionNumber:  number,
			FormType:          req.FormType,
			Status:            StatusSubmitted,
			SubmittedBy:       uid,
			SubmitterMinistry: actor.Ministry,
			TargetFolder:      folderID,
			CurrentFolder:     folderID,
			FormData:          req.FormData,
			Attachments:       []AttachmentMeta{},
			WorkflowHistory: []HistoryEntry{{
				Action:          StatusSubmitted,
				PerformedBy:     &uid,
				PerformedByName: actor.DisplayName(),
				ToStatus:        StatusSubmitted,
				ToFolder:        &folderID,
				Timestamp:       now,
			}},
			CreatedAt: now,
			UpdatedAt: now,
		}

		err = s.Repo.Create(ctx, sub)
		if err == nil {
			break
		}
		if attempt == numberRetries-1 || !isDuplicate(err) {
			return nil, apperr.DuplicateKey(err, "submission number collision; please retry")
		}
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Submitted %s (%s)", sub.FormType, sub.SubmissionNumber))
	return sub, nil
}

func isDuplicate(err error) bool {
	type causer interface{ Cause() error }
	if apperr.IsDuplicateKey(err) {
		return true
	}
	if c, ok := err.(causer); ok {
		return apperr.IsDuplicateKey(c.Cause())
	}
	return false
}

// ownedFilter scopes a base filter to the caller's own submissions
// unless the caller holds an admin role.
func ownedFilter(actor *models.Identity, base bson.M) bson.M {
	if actor != nil && actor.IsAdmin() {
		return base
	}
	filter := bson.M{"submitted_by": primitive.NilObjectID}
	if actor != nil {
		filter["submitted_by"] = actor.UserID
	}
	for k, v := range base {
		filter[k] = v
	}
	return filter
}

func (s *SubmissionServiceImpl) GetSubmission(ctx context.Context, actor *models.Identity, id string) (*Submission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid submission id")
	}

	sub, err := s.Repo.FindByID(ctx, ownedFilter(actor, bson.M{"_id": oid}))
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperr.NotFound("submission not found")
	}
	return sub, nil
}

func (s *SubmissionServiceImpl) ListSubmissions(ctx context.Context, actor *models.Identity, status string) ([]Submission, error) {
	base := bson.M{}
	if status != "" {
		if !ValidStatus(status) {
			return nil, apperr.Validation("unknown submission status")
		}
		base["status"] = status
	}
	return s.Repo.Find(ctx, ownedFilter(actor, base))
}

func (s *SubmissionServiceImpl) ListByFolder(ctx context.Context, actor *models.Identity, folderID string) ([]Submission, error) {
	oid, err := primitive.ObjectIDFromHex(folderID)
	if err != nil {
		return nil, apperr.Validation("invalid folder id")
	}
	return s.Repo.Find(ctx, ownedFilter(actor, bson.M{"current_folder": oid}))
}

func (s *SubmissionServiceImpl) Transition(ctx context.Context, actor *models.Identity, id string, req *TransitionRequest) (*Submission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid submission id")
	}
	if !ValidStatus(req.Status) {
		return nil, apperr.Validation("unknown submission status")
	}

	sub, err := s.Repo.FindByID(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperr.NotFound("submission not found")
	}

	now := s.now().UTC()
	set := bson.M{
		"status":     req.Status,
		"updated_at": now,
	}

	fromFolder := sub.CurrentFolder
	toFolder := sub.CurrentFolder
	if req.NewFolder != "" {
		folderID, err := primitive.ObjectIDFromHex(req.NewFolder)
		if err != nil {
			return nil, apperr.Validation("invalid folder id")
		}
		dest, err := s.FolderRepo.FindByID(ctx, folderID)
		if err != nil {
			return nil, err
		}
		if dest == nil {
			return nil, apperr.Validation("destination folder does not exist")
		}
		toFolder = folderID
		set["current_folder"] = folderID
	}

	var actorID *primitive.ObjectID
	if actor != nil {
		uid := actor.UserID
		actorID = &uid
	}

	switch req.Status {
	case StatusApproved, StatusRejected:
		set["reviewed_by"] = actorID
		set["reviewed_at"] = now
		set["review_notes"] = req.Comments
	case StatusProcessed:
		set["processed_by"] = actorID
		set["processed_at"] = now
	}

	entry := HistoryEntry{
		Action:          fmt.Sprintf("Status changed to %s", req.Status),
		PerformedBy:     actorID,
		PerformedByName: actor.DisplayName(),
		FromStatus:      sub.Status,
		ToStatus:        req.Status,
		FromFolder:      &fromFolder,
		ToFolder:        &toFolder,
		Comments:        req.Comments,
		Timestamp:       now,
	}

	updated, err := s.Repo.ApplyTransition(ctx, oid, set, entry)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFound("submission not found")
	}

	s.Events.Record(ctx, actor, fmt.Sprintf(
		"Submission %s moved from %s to %s", sub.SubmissionNumber, sub.Status, req.Status))
	return updated, nil
}

func (s *SubmissionServiceImpl) AddAttachment(ctx context.Context, actor *models.Identity, id string, req *AddAttachmentRequest) (*Submission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid submission id")
	}
	fileID, err := primitive.ObjectIDFromHex(req.FileID)
	if err != nil {
		return nil, apperr.Validation("invalid file id")
	}

	// Only the submitter (or an admin) may attach files.
	sub, err := s.Repo.FindByID(ctx, ownedFilter(actor, bson.M{"_id": oid}))
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperr.NotFound("submission not found")
	}

	updated, err := s.Repo.PushAttachment(ctx, oid, AttachmentMeta{
		FileID:      fileID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        req.Size,
		UploadedAt:  s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFound("submission not found")
	}

	s.Events.Record(ctx, actor, fmt.Sprintf(
		"Attached '%s' to submission %s", req.FileName, sub.SubmissionNumber))
	return updated, nil
}

func (s *SubmissionServiceImpl) DeleteSubmission(ctx context.Context, actor *models.Identity, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("invalid submission id")
	}

	sub, err := s.Repo.FindByID(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if sub == nil {
		return apperr.NotFound("submission not found")
	}

	if err := s.Repo.Delete(ctx, oid); err != nil {
		return err
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Deleted submission %s", sub.SubmissionNumber))
	return nil
}
