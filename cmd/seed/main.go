package main

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"go-pdx/internal/config"
	"go-pdx/internal/database"
	"go-pdx/internal/features/folder"
	"go-pdx/internal/features/group"
	"go-pdx/internal/features/permission"
	"go-pdx/internal/features/role"
	"go-pdx/internal/features/securityrequest"
	"go-pdx/internal/features/submission"
	"go-pdx/internal/features/user"
	"go-pdx/internal/logger"
	"go-pdx/internal/seed"
)

// Standalone seeder: provisions indexes, the permission registry, the
// super-admin role and account, and the standard groups, then exits.
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,

			permission.NewPermissionRepository,
			role.NewRoleRepository,
			user.NewUserRepository,
			group.NewGroupRepository,
			folder.NewFolderRepository,
			submission.NewSubmissionRepository,
			securityrequest.NewSecurityRequestRepository,

			seed.NewSeeder,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(func(lc fx.Lifecycle, seeder *seed.Seeder, log *zap.Logger, shutdowner fx.Shutdowner) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					runCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
					defer cancel()

					if err := seeder.Run(runCtx); err != nil {
						log.Error("seeding failed", zap.Error(err))
						return err
					}
					log.Info("seeding completed")
					return shutdowner.Shutdown()
				},
			})
		}),
	)

	app.Run()
}
