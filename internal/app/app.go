package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/match-stats-scheduler/internal/config"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/jobscheduler"
	"github.com/riskibarqy/match-stats-scheduler/internal/infrastructure/jobqueue"
	"github.com/riskibarqy/match-stats-scheduler/internal/infrastructure/mirror"
	cacherepo "github.com/riskibarqy/match-stats-scheduler/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/match-stats-scheduler/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-stats-scheduler/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/match-stats-scheduler/internal/infrastructure/scraper/totalcorner"
	"github.com/riskibarqy/match-stats-scheduler/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/match-stats-scheduler/internal/platform/cache"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/id"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/resilience"
	"github.com/riskibarqy/match-stats-scheduler/internal/usecase"
)

// App holds the wired services shared by the api and worker binaries.
type App struct {
	Config     config.Config
	Logger     *logging.Logger
	Schedule   *usecase.ScheduleService
	Statistics *usecase.StatisticsService

	closers []func() error
}

// Build wires storage, collaborators and services from cfg. Every
// dependency is passed explicitly; nothing is held in package state.
func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	storage, dispatchRepo, err := a.buildStorage(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	scraper, err := totalcorner.NewClient(totalcorner.Config{
		BaseURL:    cfg.SourceBaseURL,
		UserAgent:  cfg.SourceUserAgent,
		Timeout:    cfg.SourceTimeout,
		MaxRetries: cfg.SourceMaxRetries,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SourceCircuitEnabled,
			FailureThreshold: cfg.SourceCircuitFailureCount,
			OpenTimeout:      cfg.SourceCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SourceCircuitHalfOpenMaxReq,
		},
	}, logger.Named("totalcorner"))
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("build totalcorner client: %w", err)
	}

	statsMirror, err := a.buildMirror(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Schedule = usecase.NewScheduleService(
		scraper,
		storage,
		a.buildRegistrar(),
		dispatchRepo,
		id.NewRandomGenerator("dsp_"),
		usecase.ScheduleConfig{
			Delays:         cfg.CollectionDelays,
			CollectJobPath: cfg.CollectJobPath,
			Now:            cfg.Now,
		},
		logger.Named("schedule"),
	)
	a.Statistics = usecase.NewStatisticsService(
		scraper,
		storage,
		statsMirror,
		dispatchRepo,
		usecase.StatisticsConfig{
			Source:         cfg.SourceName,
			CollectJobPath: cfg.CollectJobPath,
			Now:            cfg.Now,
		},
		logger.Named("statistics"),
	)

	return a, nil
}

// NewHTTPServer builds the api server around a wired App.
func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.Config.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(a.Schedule, a.Statistics, a.Config.TrackedTeams, a.Logger.Named("httpapi"))
	router := httpapi.NewRouter(handler, a.Logger, httpapi.RouterConfig{
		CORSAllowedOrigins: a.Config.CORSAllowedOrigins,
		InternalJobToken:   a.Config.InternalJobToken,
		CollectJobPath:     a.Config.CollectJobPath,
	})

	return &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}, nil
}

// Close releases resources opened by Build in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) buildStorage(ctx context.Context) (usecase.StorageGateway, jobscheduler.Repository, error) {
	cfg := a.Config

	var (
		storage      usecase.StorageGateway
		dispatchRepo jobscheduler.Repository
	)
	switch cfg.StorageBackend {
	case config.StorageBackendMemory:
		storage = memory.NewStorageGateway(cfg.SourceLocation)
		dispatchRepo = memory.NewJobDispatchRepository()
		a.Logger.Warn("using in-memory storage", "reason", "STORAGE_BACKEND=memory")
	default:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, db.Close)
		storage = postgres.NewStorageGateway(db, cfg.SourceLocation)
		dispatchRepo = postgres.NewJobDispatchRepository(db)
	}

	if cfg.CacheEnabled {
		store, err := a.buildCache(ctx)
		if err != nil {
			return nil, nil, err
		}
		storage = cacherepo.NewStorageGateway(storage, store)
	}
	return storage, dispatchRepo, nil
}

func (a *App) buildCache(ctx context.Context) (basecache.Cache, error) {
	cfg := a.Config
	if cfg.CacheBackend != config.CacheBackendRedis {
		return basecache.NewStore(cfg.CacheTTL), nil
	}
	client, err := basecache.OpenRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}
	a.closers = append(a.closers, client.Close)
	return basecache.NewRedisStore(client, cfg.ServiceName+":storage", cfg.CacheTTL), nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBSSLMode)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(traceQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func (a *App) buildRegistrar() usecase.JobRegistrar {
	cfg := a.Config
	if !cfg.QStashEnabled {
		a.Logger.Info("qstash disabled, collection jobs are logged only", "reason", "QSTASH_ENABLED=false")
		return jobqueue.NewLogRegistrar(a.Logger.Named("jobqueue"))
	}

	publisher := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.QStashCircuitEnabled,
			FailureThreshold: cfg.QStashCircuitFailureCount,
			OpenTimeout:      cfg.QStashCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
		},
	}, a.Logger)
	return jobqueue.NewRegistrar(publisher, cfg.CollectJobPath)
}

func (a *App) buildMirror(ctx context.Context) (usecase.StatisticsMirror, error) {
	cfg := a.Config
	switch cfg.MirrorBackend {
	case config.MirrorBackendSheets:
		m, err := mirror.NewSheetsMirror(ctx, cfg.GoogleCredsPath, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			return nil, fmt.Errorf("build sheets mirror: %w", err)
		}
		return m, nil
	case config.MirrorBackendXLSX:
		m, err := mirror.NewXLSXMirror(cfg.XLSXPath, cfg.GoogleSheetName)
		if err != nil {
			return nil, fmt.Errorf("build xlsx mirror: %w", err)
		}
		return m, nil
	default:
		return usecase.NewNoopStatisticsMirror(), nil
	}
}
