package pdf

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/models"
	"go-pdx/internal/config"
	"go-pdx/internal/features/systemevent"
)

type PDFService interface {
	Upload(ctx context.Context, actor *models.Identity, header *multipart.FileHeader) (*StoredFile, error)
	// List returns the caller's own files; admins see all.
	List(ctx context.Context, actor *models.Identity) ([]StoredFile, error)
	// Stream writes the blob to w; callers must have checked Stat first
	// for headers.
	Stat(ctx context.Context, actor *models.Identity, id string) (*StoredFile, error)
	Stream(ctx context.Context, actor *models.Identity, id string, w io.Writer) error
	Delete(ctx context.Context, actor *models.Identity, id string) error
}

type PDFServiceImpl struct {
	Store  BlobStore
	Events systemevent.SystemEventService
	Config *config.Config
}

func NewPDFService(store BlobStore, events systemevent.SystemEventService, cfg *config.Config) PDFService {
	return &PDFServiceImpl{
		Store:  store,
		Events: events,
		Config: cfg,
	}
}

func (s *PDFServiceImpl) Upload(ctx context.Context, actor *models.Identity, header *multipart.FileHeader) (*StoredFile, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("Unauthorized: No session")
	}
	if header.Size > s.Config.MaxUploadBytes {
		return nil, apperr.Validation(fmt.Sprintf(
			"file exceeds the %d MB upload limit", s.Config.MaxUploadBytes/(1024*1024)))
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "application/pdf" &&
		!strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		return nil, apperr.Validation("only PDF files are accepted")
	}

	src, err := header.Open()
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindValidation, "failed to read uploaded file")
	}
	defer src.Close()

	id, err := s.Store.Put(header.Filename, FileMetadata{
		UserID:       actor.UserID,
		OriginalName: header.Filename,
		ContentType:  "application/pdf",
	}, src)
	if err != nil {
		return nil, err
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Uploaded PDF '%s'", header.Filename))
	return s.Store.Stat(id)
}

func (s *PDFServiceImpl) List(ctx context.Context, actor *models.Identity) ([]StoredFile, error) {
	filter := bson.M{}
	if actor == nil || !actor.IsAdmin() {
		uid := primitive.NilObjectID
		if actor != nil {
			uid = actor.UserID
		}
		filter["metadata.userId"] = uid
	}
	return s.Store.Find(filter)
}

// load fetches metadata and enforces ownership for non-admin callers.
func (s *PDFServiceImpl) load(actor *models.Identity, id string) (*StoredFile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid file id")
	}

	file, err := s.Store.Stat(oid)
	if err == ErrBlobNotFound {
		return nil, apperr.NotFound("file not found")
	}
	if err != nil {
		return nil, err
	}

	if actor == nil || (!actor.IsAdmin() && file.Metadata.UserID != actor.UserID) {
		return nil, apperr.NotFound("file not found")
	}
	return file, nil
}

func (s *PDFServiceImpl) Stat(ctx context.Context, actor *models.Identity, id string) (*StoredFile, error) {
	return s.load(actor, id)
}

func (s *PDFServiceImpl) Stream(ctx context.Context, actor *models.Identity, id string, w io.Writer) error {
	file, err := s.load(actor, id)
	if err != nil {
		return err
	}

	if _, err := s.Store.WriteTo(file.ID, w); err != nil {
		if err == ErrBlobNotFound {
			return apperr.NotFound("file not found")
		}
		return err
	}
	return nil
}

func (s *PDFServiceImpl) Delete(ctx context.Context, actor *models.Identity, id string) error {
	file, err := s.load(actor, id)
	if err != nil {
		return err
	}

	if err := s.Store.Delete(file.ID); err != nil {
		if err == ErrBlobNotFound {
			return apperr.NotFound("file not found")
		}
		return err
	}

	s.Events.Record(ctx, actor, fmt.Sprintf("Deleted PDF '%s'", file.Metadata.OriginalName))
	return nil
}
