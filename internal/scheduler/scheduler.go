package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"go-pdx/internal/config"
	"go-pdx/internal/features/folder"
)

// Scheduler runs the archive generator on the configured cron
// expression. The scheduled run and the manual trigger endpoint share
// one generator implementation.
type Scheduler struct {
	cron      *cron.Cron
	generator folder.ArchiveGenerator
	config    *config.Config
	logger    *zap.Logger
}

func NewScheduler(generator folder.ArchiveGenerator, cfg *config.Config, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		generator: generator,
		config:    cfg,
		logger:    logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.config.ArchiveCron, func() {
		s.generator.RunScheduled(context.Background())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("archive scheduler started", zap.String("cron", s.config.ArchiveCron))
	return nil
}

func (s *Scheduler) Stop() error {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("archive scheduler stopped")
	return nil
}
