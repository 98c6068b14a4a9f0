package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/business-pulse/pkg/services/benchmark"
	"github.com/de-tools/business-pulse/pkg/services/config"
	"github.com/de-tools/business-pulse/pkg/services/facts"
	"github.com/de-tools/business-pulse/pkg/services/health"
	"github.com/de-tools/business-pulse/pkg/services/insight"
	"github.com/de-tools/business-pulse/pkg/services/metrics"
	"github.com/de-tools/business-pulse/pkg/services/report"
	"github.com/de-tools/business-pulse/pkg/services/trend"
	"github.com/de-tools/business-pulse/pkg/services/workflow"
	"github.com/de-tools/business-pulse/pkg/store/artifact"
	benchmarkfile "github.com/de-tools/business-pulse/pkg/store/benchmark"
	"github.com/de-tools/business-pulse/pkg/store/cache"
	"github.com/de-tools/business-pulse/pkg/store/duckdb"
	duckdbbenchmark "github.com/de-tools/business-pulse/pkg/store/duckdb/benchmark"
	duckdbfacts "github.com/de-tools/business-pulse/pkg/store/duckdb/facts"
	duckdbreport "github.com/de-tools/business-pulse/pkg/store/duckdb/report"
	"github.com/de-tools/business-pulse/pkg/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// App holds the wired services shared by the web server and the CLI.
type App struct {
	Config     *config.Config
	DB         *sql.DB
	Facts      facts.Reader
	FactsStore duckdbfacts.Store
	Generator  *report.Generator
	Briefs     *insight.BriefComposer
	Registry   *prometheus.Registry
	Recorder   *telemetry.Recorder
	// Locker and Publisher are nil when redis or s3 are not configured.
	Locker    workflow.Locker
	Publisher workflow.Publisher

	redis *redis.Client
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := zerolog.Ctx(ctx)

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.DuckDB.Path})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	a := &App{Config: cfg, DB: db}

	if err := a.wire(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	logger.Info().
		Str("duckdb", cfg.DuckDB.Path).
		Bool("cache", a.redis != nil).
		Bool("publish", a.Publisher != nil).
		Msg("application wired")
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg := a.Config

	factsStore, err := duckdbfacts.NewStore(a.DB)
	if err != nil {
		return fmt.Errorf("failed to create facts store: %w", err)
	}
	reportStore, err := duckdbreport.NewStore(a.DB)
	if err != nil {
		return fmt.Errorf("failed to create report store: %w", err)
	}

	var source benchmark.Source
	if cfg.Benchmarks.File != "" {
		if source, err = benchmarkfile.NewFileSource(cfg.Benchmarks.File); err != nil {
			return err
		}
	} else if source, err = duckdbbenchmark.NewStore(a.DB); err != nil {
		return fmt.Errorf("failed to create benchmark store: %w", err)
	}
	resolver := benchmark.NewResolver(source, benchmark.DefaultFallbacks())

	a.Registry = prometheus.NewRegistry()
	if a.Recorder, err = telemetry.NewRecorder(a.Registry); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	scorer, err := health.NewService(resolver, cfg.HealthSettings())
	if err != nil {
		return err
	}

	a.FactsStore = factsStore
	a.Facts = facts.NewReader(factsStore)

	opts := []report.Option{report.WithRecorder(a.Recorder)}
	if cfg.Redis.Addr != "" {
		a.redis = cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		opts = append(opts, report.WithSummaryCache(cache.NewSummaryCache(a.redis, cfg.Redis.SummaryTTL)))
		a.Locker = workflow.NewRedisLocker(a.redis)
	}

	if cfg.S3.Bucket != "" {
		client, err := artifact.NewS3Client(ctx, cfg.S3.Region)
		if err != nil {
			return err
		}
		if a.Publisher, err = artifact.NewS3Publisher(client, cfg.S3.Bucket, cfg.S3.Prefix); err != nil {
			return err
		}
	}

	insightSettings := insight.DefaultSettings()
	a.Generator = report.NewGenerator(
		a.Facts,
		metrics.NewCalculator(a.Facts, resolver, cfg.MetricsSettings()),
		trend.NewAnalyzer(a.Facts, trend.DefaultSettings()),
		insight.NewEngine(insightSettings),
		scorer,
		report.NewRepository(reportStore),
		report.DefaultSettings(),
		opts...,
	)
	a.Briefs = insight.NewBriefComposer(a.Facts, insightSettings, time.Now)
	return nil
}

// NewController runs batches in the background for the web server.
func (a *App) NewController() *workflow.DefaultController {
	return workflow.NewController(a.Generator, a.Locker, a.Publisher, a.Recorder, a.Config.RunnerConfig())
}

// NewRunner runs a single batch in the foreground for the CLI.
func (a *App) NewRunner(batch workflow.Batch) *workflow.Runner {
	return workflow.NewRunner(batch, a.Generator, a.Locker, a.Publisher, a.Recorder, a.Config.RunnerConfig())
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
