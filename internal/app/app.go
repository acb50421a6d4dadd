// Package app assembles the progress services from configuration. Both the
// HTTP gateway and the command line tool start from here.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/progress"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/repository"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/service"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/cache"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/config"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/database"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/export"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/jobs"
)

// App holds the connected stores and the services built on them.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Mongo    *mongo.Client
	Ledger   *sqlx.DB
	Redis    *redis.Client
	Metrics  *service.MetricsService
	Progress *service.ProgressService
	Reports  *service.ReportService
	Sweeps   *service.ReconcileService
	Queue    *jobs.Queue

	Reconciler *progress.Reconciler
}

// New connects the stores named by cfg and wires the services. Postgres and
// Redis are optional and only dialled when enabled.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger, Metrics: service.NewMetricsService()}

	reconciler, err := NewReconciler(cfg.Progress)
	if err != nil {
		return nil, err
	}
	a.Reconciler = reconciler

	a.Mongo, err = database.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	students := repository.NewStudentRepository(database.StudentsCollection(a.Mongo, cfg.Mongo), a.Metrics)

	progressCfg := service.ProgressServiceConfig{
		Metrics:   a.Metrics,
		Validator: validator.New(),
		Logger:    logger.Named("progress"),
	}

	if cfg.Ledger.Enabled {
		a.Ledger, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			a.Close(context.Background())
			return nil, fmt.Errorf("completion ledger: %w", err)
		}
		progressCfg.Ledger = repository.NewCompletionEventRepository(a.Ledger)
	}

	var cacheRepo service.CacheRepository
	if cfg.Progress.CacheEnabled {
		a.Redis, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("progress cache disabled, redis unreachable", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(a.Redis, cfg.Progress.CacheNamespace)
		}
	}
	progressCfg.Cache = service.NewCacheService(cacheRepo, a.Metrics, cfg.Progress.CacheTTL, logger.Named("cache"), cacheRepo != nil)

	a.Progress = service.NewProgressService(students, reconciler, progressCfg)
	a.Reports = service.NewReportService(a.Progress, export.NewPDFExporter(), logger.Named("reports"))

	worker := service.NewReconcileWorker(a.Progress, logger.Named("reconcile"))
	a.Queue = jobs.NewQueue("reconcile", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reconcile.Workers,
		BufferSize: cfg.Reconcile.BufferSize,
		MaxRetries: cfg.Reconcile.MaxRetries,
		RetryDelay: cfg.Reconcile.RetryDelay,
		Logger:     logger,
	})
	a.Sweeps = service.NewReconcileService(a.Queue, progressCfg.Validator, logger.Named("reconcile"))
	return a, nil
}

// NewReconciler builds the normalizer and date labeler from configuration
// without touching any store.
func NewReconciler(cfg config.ProgressConfig) (*progress.Reconciler, error) {
	tokens, err := progress.LoadTokenTable(cfg.CourseTokensFile)
	if err != nil {
		return nil, fmt.Errorf("course tokens: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("progress timezone %q: %w", cfg.Timezone, err)
	}
	dates := progress.NewDateLabeler(cfg.Timezone, cfg.DateLayout, cfg.DisplayDateLayout)
	return progress.NewReconciler(progress.NewNormalizer(tokens), dates), nil
}

// ReadinessChecks reports a probe per connected store.
func (a *App) ReadinessChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"mongo": func(ctx context.Context) error { return a.Mongo.Ping(ctx, readpref.Primary()) },
	}
	if a.Ledger != nil {
		checks["postgres"] = a.Ledger.PingContext
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }
	}
	return checks
}

// Close stops the queue and disconnects every store.
func (a *App) Close(ctx context.Context) {
	if a.Queue != nil {
		a.Queue.Stop()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if a.Ledger != nil {
		if err := a.Ledger.Close(); err != nil {
			a.Logger.Warn("postgres close failed", zap.Error(err))
		}
	}
	if a.Mongo != nil {
		if err := a.Mongo.Disconnect(ctx); err != nil {
			a.Logger.Warn("mongo disconnect failed", zap.Error(err))
		}
	}
}
