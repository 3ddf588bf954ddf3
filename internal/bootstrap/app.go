// Package bootstrap assembles the price service from configuration. Both the
// HTTP server and the pricectl CLI build their dependencies through App.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	prediction "github.com/Parulsharma-1704/SupplyChainCropTracking/internal/application/prediction"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/cache"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/config"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/logger"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/migration"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/persistence"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/scheduler"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/storage"
	infrastrategy "github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/strategy"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/telemetry"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// App holds every long-lived dependency of the price service
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Telemetry *telemetry.Telemetry
	DB        *persistence.Database
	Cache     commodity.PredictionCache
	Store     storage.ArtifactStore
	Registry  *infrastrategy.Registry
	Models    *prediction.ModelHolder

	Predictions *prediction.PredictionService
	Training    *prediction.TrainingService
	Pipeline    *prediction.PipelineService

	// Scheduler is nil unless periodic retraining is enabled
	Scheduler *scheduler.Scheduler
	trigger   *scheduler.IntervalTrigger
	dbMetrics *telemetry.DBMetrics
}

// Option configures New
type Option func(*options)

type options struct {
	skipDatabase bool
	skipJobs     bool
}

// WithoutDatabase builds the services without prediction logging or model
// version history
func WithoutDatabase() Option {
	return func(o *options) { o.skipDatabase = true }
}

// WithoutJobs skips the retrain scheduler even when it is enabled
func WithoutJobs() Option {
	return func(o *options) { o.skipJobs = true }
}

// New wires the service from cfg. base is teed into the OTEL log pipeline
// when telemetry is enabled. On error everything already opened is closed.
func New(ctx context.Context, cfg *config.Config, base *zap.Logger, opts ...Option) (_ *App, err error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg, Logger: base}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	a.Telemetry, err = telemetry.Setup(ctx, cfg, base)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	a.Logger = a.Telemetry.Logger(base, logger.ParseLevel(cfg.Log.Level))
	log := a.Logger

	if !o.skipDatabase {
		if err = a.openDatabase(ctx); err != nil {
			return nil, err
		}
	}

	a.Store, err = storage.New(ctx, &cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("artifact store: %w", err)
	}

	a.Cache, err = cache.NewPredictionCacheFactory(cfg.Redis, cache.WithLogger(log)).Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("prediction cache: %w", err)
	}

	a.Registry, err = infrastrategy.NewRegistryWithDefaults()
	if err != nil {
		return nil, fmt.Errorf("strategy registry: %w", err)
	}

	a.Models = prediction.NewModelHolder()
	metrics := a.Telemetry.Metrics

	predictionOpts := []prediction.PredictionServiceOption{
		prediction.WithPredictionCache(a.Cache),
		prediction.WithPredictionMetrics(metrics),
		prediction.WithPredictionLogger(logger.Named(log, "prediction")),
	}
	trainingOpts := []prediction.TrainingServiceOption{
		prediction.WithCacheInvalidation(a.Cache),
		prediction.WithTrainingMetrics(metrics),
		prediction.WithTrainingLogger(logger.Named(log, "training")),
	}
	if a.DB != nil {
		predictionOpts = append(predictionOpts,
			prediction.WithPredictionLogs(persistence.NewGormPredictionLogRepository(a.DB.DB)))
		trainingOpts = append(trainingOpts,
			prediction.WithModelVersions(persistence.NewGormModelVersionRepository(a.DB.DB)))
	}

	a.Predictions = prediction.NewPredictionService(a.Models, a.Registry, predictionOpts...)
	a.Training = prediction.NewTrainingService(cfg.Model, a.Models, a.Store, trainingOpts...)
	a.Pipeline = prediction.NewPipelineService(cfg.Pipeline,
		prediction.WithPipelineLogger(logger.Named(log, "pipeline")))

	loaded, err := a.Training.LoadModel(ctx)
	if err != nil {
		log.Warn("Failed to load model, serving fallback prices", zap.Error(err))
	} else if !loaded {
		log.Info("No trained model found, serving fallback prices", zap.String("key", a.Training.ModelKey()))
	}

	if cfg.Retrain.Enabled && !o.skipJobs {
		if err = a.buildJobs(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *App) openDatabase(ctx context.Context) error {
	cfg := a.Config
	log := a.Logger

	db, err := persistence.NewDatabase(&cfg.Database, logger.Named(log, "gorm"))
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	a.DB = db

	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        telemetry.DBSystemFor(cfg.Database.Driver),
	}, log).RegisterOtelGorm(db.DB); err != nil {
		return fmt.Errorf("database tracing: %w", err)
	}

	a.dbMetrics, err = telemetry.RegisterDBMetrics(db.DB, a.Telemetry.Meter, cfg.Telemetry.DBSlowQueryThresh, log)
	if err != nil {
		return fmt.Errorf("database metrics: %w", err)
	}

	if !cfg.Database.AutoMigrate {
		return nil
	}
	if cfg.Database.Driver == persistence.DriverPostgres {
		return MigrateUp(cfg, log)
	}
	return db.AutoMigrate(ctx)
}

// MigrateUp applies the embedded postgres migrations over a dedicated
// connection
func MigrateUp(cfg *config.Config, log *zap.Logger) error {
	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	m, err := migration.New(sqlDB, log)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			log.Warn("Failed to close migrator", zap.Error(cerr))
		}
	}()
	return m.Up()
}

func (a *App) buildJobs() error {
	log := logger.Named(a.Logger, "jobs")
	exec := prediction.NewJobExecutor(a.Training, a.Pipeline, log)

	s, err := scheduler.NewScheduler(scheduler.ConfigFromRetrain(a.Config.Retrain), exec, log,
		scheduler.WithMetrics(a.Telemetry.Metrics))
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	a.Scheduler = s

	if a.Config.Retrain.Interval > 0 {
		a.trigger, err = scheduler.NewIntervalTrigger(scheduler.IntervalTriggerConfig{
			Interval: a.Config.Retrain.Interval,
			JobType:  scheduler.JobTypeRetrain,
		}, s, log)
		if err != nil {
			return fmt.Errorf("retrain trigger: %w", err)
		}
	}
	return nil
}

// StartJobs starts the scheduler and the periodic retrain trigger. It is a
// no-op when jobs are disabled.
func (a *App) StartJobs(ctx context.Context) error {
	if a.Scheduler == nil {
		return nil
	}
	if err := a.Scheduler.Start(ctx); err != nil {
		return err
	}
	if a.trigger != nil {
		return a.trigger.Start(ctx)
	}
	return nil
}

// Close stops background work and releases every resource in reverse
// construction order
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.trigger != nil {
		errs = append(errs, a.trigger.Stop(ctx))
	}
	if a.Scheduler != nil {
		stopCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		errs = append(errs, a.Scheduler.Stop(stopCtx))
		cancel()
	}
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.dbMetrics != nil {
		a.dbMetrics.Stop()
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Telemetry != nil {
		errs = append(errs, a.Telemetry.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
