package folder

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-pdx/internal/common/apperr"
	"go-pdx/internal/common/models"
	"go-pdx/internal/config"
	"go-pdx/internal/features/systemevent"
)

// ArchiveGenerator materializes the year/month archive folders one
// calendar month ahead of the invocation date. It is idempotent and safe
// to run concurrently across instances: creation races are resolved by
// the unique page index, never by locking.
type ArchiveGenerator interface {
	Generate(ctx context.Context, actor *models.Identity) (*GenerateResult, error)
	// RunScheduled wraps Generate with start and end audit events for
	// the cron trigger.
	RunScheduled(ctx context.Context)
}

type ArchiveGeneratorImpl struct {
	Repo   FolderRepository
	Events systemevent.SystemEventService
	Config *config.Config
	Logger *zap.Logger
	now    func() time.Time
}

func NewArchiveGenerator(repo FolderRepository, events systemevent.SystemEventService, cfg *config.Config, logger *zap.Logger) ArchiveGenerator {
	return &ArchiveGeneratorImpl{
		Repo:   repo,
		Events: events,
		Config: cfg,
		Logger: logger,
		now:    time.Now,
	}
}

func (g *ArchiveGeneratorImpl) Generate(ctx context.Context, actor *models.Identity) (*GenerateResult, error) {
	now := g.now().UTC()
	target := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC)

	root := g.Config.ArchiveRootPath
	yearName := strconv.Itoa(target.Year())
	yearPage := root + "/" + yearName
	monthName := target.Format("January 2006")
	monthPage := yearPage + "/" + target.Format("January")

	result := &GenerateResult{Created: []string{}}

	yearFolder, created, err := g.ensureFolder(ctx, actor, &Folder{
		Name:                yearName,
		Page:                yearPage,
		Group:               models.GroupPayrollArchive,
		ParentPath:          root,
		RequiredPermissions: []string{models.PermPayrollView},
		Theme:               models.ThemeBlue,
	})
	if err != nil {
		return nil, err
	}
	g.note(result, yearName, created)

	monthSpec := &Folder{
		Name:                monthName,
		Page:                monthPage,
		Group:               models.GroupPayrollArchive,
		ParentPath:          yearPage,
		RequiredPermissions: []string{models.PermPayrollView},
		Theme:               models.ThemeGreen,
	}
	if yearFolder != nil {
		id := yearFolder.ID
		monthSpec.ParentFolder = &id
	}
	_, created, err = g.ensureFolder(ctx, actor, monthSpec)
	if err != nil {
		return nil, err
	}
	g.note(result, monthName, created)

	return result, nil
}

func (g *ArchiveGeneratorImpl) note(result *GenerateResult, name string, created bool) {
	if created {
		result.Created = append(result.Created, name)
	} else {
		result.SkippedCount++
	}
}

// ensureFolder looks the folder up by exact page and creates it if
// absent. A duplicate-key rejection means a concurrent creator won the
// race; the winner's document is re-read and treated as already present.
func (g *ArchiveGeneratorImpl) ensureFolder(ctx context.Context, actor *models.Identity, spec *Folder) (*Folder, bool, error) {
	existing, err := g.Repo.FindByPage(ctx, spec.Page)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	max, err := g.Repo.MaxSortOrder(ctx, spec.ParentPath)
	if err != nil {
		return nil, false, err
	}

	now := g.now().UTC()
	spec.SortOrder = max + 1
	spec.IsActive = true
	spec.CreatedAt = now
	spec.UpdatedAt = now
	if actor != nil {
		uid := actor.UserID
		spec.CreatedBy = &uid
	}

	if err := g.Repo.Create(ctx, spec); err != nil {
		if apperr.IsDuplicateKey(err) || apperr.IsDuplicateKey(unwrapCause(err)) {
			winner, ferr := g.Repo.FindByPage(ctx, spec.Page)
			if ferr != nil {
				return nil, false, ferr
			}
			if winner != nil {
				return winner, false, nil
			}
		}
		return nil, false, err
	}

	g.Events.Record(ctx, actor, fmt.Sprintf("Archive generator created folder '%s' (%s)", spec.Name, spec.Page))
	return spec, true, nil
}

func unwrapCause(err error) error {
	type causer interface{ Cause() error }
	if c, ok := err.(causer); ok {
		return c.Cause()
	}
	return err
}

func (g *ArchiveGeneratorImpl) RunScheduled(ctx context.Context) {
	g.Events.RecordSystem(ctx, "Archive generation job started")

	result, err := g.Generate(ctx, systemActor())
	if err != nil {
		g.Logger.Error("archive generation failed", zap.Error(err))
		g.Events.RecordSystem(ctx, fmt.Sprintf("Archive generation job failed: %v", err))
		return
	}

	g.Logger.Info("archive generation completed",
		zap.Strings("created", result.Created),
		zap.Int("skipped", result.SkippedCount))
	g.Events.RecordSystem(ctx, fmt.Sprintf(
		"Archive generation job completed: %d created, %d skipped",
		len(result.Created), result.SkippedCount))
}

func systemActor() *models.Identity {
	return &models.Identity{
		UserID:   primitive.NilObjectID,
		Username: models.SystemActorName,
	}
}
