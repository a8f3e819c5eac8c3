package grouplet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite/sqlitex"

	cacheRistretto "github.com/grouplet/grouplet/cache/ristretto"
	"github.com/grouplet/grouplet/config"
	"github.com/grouplet/grouplet/core"
	"github.com/grouplet/grouplet/db"
	"github.com/grouplet/grouplet/db/zombiezen"
	"github.com/grouplet/grouplet/mail"
	"github.com/grouplet/grouplet/migrations"
	"github.com/grouplet/grouplet/queue"
	"github.com/grouplet/grouplet/queue/executor"
	"github.com/grouplet/grouplet/queue/handlers"
	scl "github.com/grouplet/grouplet/queue/scheduler"
	router "github.com/grouplet/grouplet/router/httprouter"
	"github.com/grouplet/grouplet/server"
)

// New wires the whole application from a config file: pool, schema, stores,
// cache, router, handlers, scheduler and server.
func New(configPath string, logger *slog.Logger) (*core.App, *server.Server, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	configProvider := config.NewProvider(cfg)

	pool, err := NewSqlitePool(cfg.DBFile)
	if err != nil {
		return nil, nil, err
	}

	if err := migrate(pool); err != nil {
		return nil, nil, err
	}

	dbApp, err := zombiezen.New(pool)
	if err != nil {
		return nil, nil, err
	}

	appCache, err := cacheRistretto.New[any]()
	if err != nil {
		return nil, nil, err
	}

	app, err := core.NewApp(
		core.WithDbApp(dbApp),
		core.WithRouter(router.New()),
		core.WithCache(appCache),
		core.WithConfigProvider(configProvider),
		core.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}

	route(app)

	scheduler, err := SetupScheduler(configProvider, dbApp, logger)
	if err != nil {
		return nil, nil, err
	}

	if err := seedPurgeJob(dbApp, cfg.Maintenance.PurgeInterval.Duration); err != nil {
		return nil, nil, err
	}

	srv := server.NewServer(configProvider, app.Router(), scheduler, logger)
	return app, srv, nil
}

func migrate(pool *sqlitex.Pool) error {
	conn, err := pool.Take(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get connection for migrations: %w", err)
	}
	defer pool.Put(conn)

	return zombiezen.ApplyMigrations(conn, migrations.Schema())
}

// SetupScheduler builds the job scheduler with all handler registrations.
// The OTP email handlers are only registered when SMTP is configured;
// without them OTP jobs stay pending, which is the useful failure mode in
// local development.
func SetupScheduler(configProvider *config.Provider, dbApp db.DbApp, logger *slog.Logger) (*scl.Scheduler, error) {
	cfg := configProvider.Get()

	hdls := make(map[string]executor.JobHandler)
	hdls[queue.JobTypePurgeExpired] = handlers.NewPurgeExpiredHandler(dbApp, logger)

	if (cfg.Smtp != config.Smtp{}) {
		mailer, err := mail.New(configProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create mailer: %w", err)
		}
		hdls[queue.JobTypeRegistrationOtp] = handlers.NewRegistrationOtpHandler(dbApp, mailer)
		hdls[queue.JobTypePasswordResetOtp] = handlers.NewPasswordResetOtpHandler(dbApp, mailer)
	} else {
		logger.Warn("smtp not configured, otp emails will not be sent")
	}

	return scl.NewScheduler(configProvider, dbApp, executor.NewExecutor(hdls), logger), nil
}

// seedPurgeJob makes sure one pending purge job exists. The queue's unique
// index on (job_type, payload) absorbs the insert on every later startup.
func seedPurgeJob(dbQueue db.DbQueue, interval time.Duration) error {
	err := dbQueue.InsertJob(queue.Job{
		JobType:   queue.JobTypePurgeExpired,
		Recurrent: true,
		Interval:  interval,
	})
	if err != nil && !errors.Is(err, db.ErrConstraintUnique) {
		return fmt.Errorf("failed to seed purge job: %w", err)
	}
	return nil
}
