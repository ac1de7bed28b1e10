package cli

import (
	"context"
	"errors"
	"fmt"
	"notabene-be/internal/config"
	"notabene-be/internal/controller"
	"notabene-be/internal/pkg/serverutils"
	"notabene-be/internal/repository"
	"notabene-be/internal/service"
	"notabene-be/pkg/database"
	"notabene-be/pkg/logger"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.Database.MigrateOnStart {
		applied, err := database.MigrateUp(cfg.Database.URL)
		if err != nil {
			return err
		}
		log.Info("migrations checked", zap.Bool("applied", applied))
	}

	db, err := database.ConnectDB(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return err
	}
	defer db.Close()

	app, tagService := newApp(cfg, log, db)

	if err := tagService.Seed(ctx, cfg.Tags.Seed); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("address", cfg.Server.Address))
		errCh <- app.Listen(cfg.Server.Address)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newApp(cfg *config.Config, log *zap.Logger, db *pgxpool.Pool) (*fiber.App, service.ITagService) {
	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.Server.BodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(cors.New())
	app.Use(serverutils.ErrorHandlerMiddleware(log))

	noteRepository := repository.NewNoteRepository(db)
	shareGrantRepository := repository.NewShareGrantRepository(db)
	noteVersionRepository := repository.NewNoteVersionRepository(db)
	tagRepository := repository.NewTagRepository(db)
	userRepository := repository.NewUserRepository(db)
	folderRepository := repository.NewFolderRepository(db)

	clock := service.SystemClock

	tagService := service.NewTagService(tagRepository, clock, log)
	shareService := service.NewShareService(shareGrantRepository, userRepository, clock)
	accessService := service.NewAccessService(shareService)
	searchService := service.NewSearchService(noteRepository, shareService)
	versionService := service.NewVersionService(noteVersionRepository, noteRepository, clock)
	noteService := service.NewNoteService(noteRepository, tagService, shareService, accessService, searchService, versionService, db, clock, log)
	folderService := service.NewFolderService(folderRepository, noteRepository, clock, db)
	authService := service.NewAuthService(userRepository, cfg.Auth.BcryptCost, clock, log)

	authController := controller.NewAuthController(authService)
	tagController := controller.NewTagController(tagService)
	noteController := controller.NewNoteController(noteService)
	folderController := controller.NewFolderController(folderService)

	// registration and login happen before an identity exists
	authController.RegisterRoutes(app.Group("/api"))

	api := app.Group("/api", serverutils.IdentityMiddleware(cfg.Server.IdentityHeader))
	tagController.RegisterRoutes(api)
	noteController.RegisterRoutes(api)
	folderController.RegisterRoutes(api)

	return app, tagService
}
