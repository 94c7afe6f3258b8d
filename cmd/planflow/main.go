package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alexanderramin/planflow/internal/cli"
	"github.com/alexanderramin/planflow/internal/config"
	"github.com/alexanderramin/planflow/internal/db"
	"github.com/alexanderramin/planflow/internal/logging"
	"github.com/alexanderramin/planflow/internal/notify"
	"github.com/alexanderramin/planflow/internal/repository"
	"github.com/alexanderramin/planflow/internal/service"
	"github.com/alexanderramin/planflow/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error (%s): %v\n", cli.ErrorKind(err), err)
		os.Exit(cli.ExitCode(err))
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}

	// Open database; migrations run on open.
	database, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	repos := repository.NewSet(database.Conn())
	uow := db.NewUnitOfWork(database)

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}
	policy, err := storage.ParsePolicy(cfg.Storage.AttachmentPolicy)
	if err != nil {
		return err
	}

	notifier, err := openNotifier(cfg.Slack, repos, logger)
	if err != nil {
		return err
	}

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	plans := service.NewPlanService(repos, uow, observers...)
	app := &cli.App{
		Users:       service.NewUserService(repos.Users),
		Plans:       plans,
		Assignments: service.NewAssignmentService(repos, uow, notifier, logger, observers...),
		Activities: service.NewActivityService(service.ActivityServiceDeps{
			Repos:    repos,
			UoW:      uow,
			Store:    store,
			Policy:   policy,
			Notifier: notifier,
			Logger:   logger,
		}, observers...),
		Notifications: service.NewNotificationService(repos.Notifications),
		Import:        service.NewImportService(plans),
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

func openStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case "gcs":
		var opts []storage.GCSOption
		if cfg.Endpoint != "" {
			opts = append(opts, storage.WithEndpoint(cfg.Endpoint))
		}
		store, err := storage.NewGCSStore(ctx, cfg.Bucket, opts...)
		if err != nil {
			return nil, fmt.Errorf("opening gcs bucket %s: %w", cfg.Bucket, err)
		}
		return store, nil
	default:
		store, err := storage.NewLocalStore(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("opening attachment dir: %w", err)
		}
		return store, nil
	}
}

// openNotifier always keeps the in-app inbox and adds Slack when configured.
func openNotifier(cfg config.SlackConfig, repos *repository.Set, logger *slog.Logger) (notify.Sender, error) {
	senders := notify.Multi{notify.NewStoreSender(repos.Notifications)}
	if cfg.Enabled() {
		slack, err := notify.NewSlackSender(cfg.Token, cfg.Channel)
		if err != nil {
			return nil, fmt.Errorf("configuring slack: %w", err)
		}
		senders = append(senders, slack)
		logger.Debug("slack notifications enabled", "channel", cfg.Channel)
	}
	return senders, nil
}
