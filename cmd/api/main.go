package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "go-pdx/internal/common/api"
	"go-pdx/internal/common/apperr"
	"go-pdx/internal/config"
	"go-pdx/internal/database"
	"go-pdx/internal/features/auth"
	"go-pdx/internal/features/folder"
	"go-pdx/internal/features/group"
	"go-pdx/internal/features/pdf"
	"go-pdx/internal/features/permission"
	"go-pdx/internal/features/role"
	"go-pdx/internal/features/securityrequest"
	"go-pdx/internal/features/submission"
	"go-pdx/internal/features/systemevent"
	"go-pdx/internal/features/user"
	"go-pdx/internal/logger"
	"go-pdx/internal/middleware"
	"go-pdx/internal/scheduler"
	"go-pdx/internal/seed"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates the Fiber app with the central error handler.
// Every handler returns errors; this is the single place they become
// JSON responses with a stable machine-checkable kind.
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             int(cfg.MaxUploadBytes) + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"kind":    apperr.KindInternal,
					"message": e.Message,
				})
			}

			body := fiber.Map{
				"kind":    apperr.KindOf(err),
				"message": apperr.MessageOf(err),
			}
			if !cfg.IsProduction() {
				// Full error chain, stack included, outside production.
				body["detail"] = fmt.Sprintf("%+v", err)
			}
			return c.Status(apperr.StatusOf(err)).JSON(body)
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags a constructor so Fx adds its result to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" and calls Setup() on each.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer starts Fiber in a goroutine and shuts it down on exit.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := app.Listen(fmt.Sprintf(":%s", cfg.Port)); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// Bootstrap runs the idempotent seeder before the server accepts
// traffic, guaranteeing indexes, the permission registry and one active
// super-admin account.
func Bootstrap(lc fx.Lifecycle, seeder *seed.Seeder, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			seedCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			if err := seeder.Run(seedCtx); err != nil {
				logger.Error("bootstrap seeding failed", zap.Error(err))
				return err
			}
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,
			database.NewPDFBucket,

			// Repositories
			systemevent.NewSystemEventRepository,
			permission.NewPermissionRepository,
			role.NewRoleRepository,
			user.NewUserRepository,
			folder.NewFolderRepository,
			group.NewGroupRepository,
			submission.NewSubmissionRepository,
			securityrequest.NewSecurityRequestRepository,

			// Services
			systemevent.NewSystemEventService,
			permission.NewPermissionService,
			role.NewRoleService,
			user.NewUserService,
			auth.NewAuthService,
			folder.NewFolderService,
			folder.NewArchiveGenerator,
			group.NewGroupService,
			submission.NewSubmissionService,
			securityrequest.NewSecurityRequestService,
			pdf.NewGridFSStore,
			pdf.NewPDFService,

			seed.NewSeeder,
			scheduler.NewScheduler,
			middleware.NewAuthMiddleware,

			// Interface adapters to break circular dependencies
			func(s auth.AuthService) middleware.SessionResolver { return s },
			func(r role.RoleRepository) permission.RoleCleaner { return r },

			// Controllers
			auth.NewAuthController,
			permission.NewPermissionController,
			role.NewRoleController,
			user.NewUserController,
			folder.NewFolderController,
			group.NewGroupController,
			submission.NewSubmissionController,
			securityrequest.NewSecurityRequestController,
			systemevent.NewSystemEventController,
			pdf.NewPDFController,

			// API routes
			AsRoute(auth.NewAuthApi),
			AsRoute(permission.NewPermissionApi),
			AsRoute(role.NewRoleApi),
			AsRoute(user.NewUserApi),
			AsRoute(folder.NewFolderApi),
			AsRoute(group.NewGroupApi),
			AsRoute(submission.NewSubmissionApi),
			AsRoute(securityrequest.NewSecurityRequestApi),
			AsRoute(systemevent.NewSystemEventApi),
			AsRoute(pdf.NewPDFApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			Bootstrap,
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, sched *scheduler.Scheduler) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return sched.Start(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return sched.Stop()
					},
				})
			},
		),
	)

	app.Run()
}
