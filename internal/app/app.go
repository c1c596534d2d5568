package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/data/db"
	httpserver "github.com/yungbote/coursehub-backend/internal/http"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/envutil"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *db.Service
	Cfg      Config
	Clients  Clients
	Services Services
	Metrics  *observability.Metrics
	Server   *httpserver.Server

	shutdownTracing func(context.Context) error
	flushSentry     func()
	cancel          context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	log, err := logger.NewWithOptions(envutil.String("LOG_MODE", "development"), logger.Options{
		Level:      envutil.String("LOG_LEVEL", "debug"),
		File:       envutil.String("LOG_FILE", ""),
		MaxSizeMB:  envutil.Int("LOG_MAX_SIZE_MB", 0),
		MaxBackups: envutil.Int("LOG_MAX_BACKUPS", 0),
		MaxAgeDays: envutil.Int("LOG_MAX_AGE_DAYS", 0),

		KeepSecrets: !envutil.Bool("LOG_REDACTION_ENABLED", true),
		HashSalt:    envutil.String("LOG_HASH_SALT", ""),
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Env == EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if loc, err := time.LoadLocation(cfg.TimeZone); err != nil {
		log.Warn("Unknown TIME_ZONE; keeping system zone", "time_zone", cfg.TimeZone, "error", err)
	} else {
		time.Local = loc
	}

	a := &App{Log: log, Cfg: cfg}
	a.flushSentry, err = observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Version)
	if err != nil {
		log.Warn("Sentry init failed; error reporting is off", "error", err)
	}
	a.shutdownTracing = observability.InitTracing(ctx, log, observability.TracingConfigFromEnv(cfg.ServiceName, cfg.Env, cfg.Version))
	a.Metrics = observability.Init(log)

	dbs, err := db.Open(cfg.DBConfig(), log)
	if err != nil {
		a.Shutdown(ctx)
		return nil, fmt.Errorf("init database: %w", err)
	}
	a.DB = dbs
	if err := dbs.Migrate(ctx); err != nil {
		a.Shutdown(ctx)
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	sqlDB, err := dbs.DB().DB()
	if err != nil {
		a.Shutdown(ctx)
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	a.Clients, err = wireClients(ctx, log, cfg, a.Metrics)
	if err != nil {
		a.Shutdown(ctx)
		return nil, err
	}
	a.Services, err = wireServices(dbs.DB(), log, cfg, a.Clients, a.Metrics)
	if err != nil {
		a.Shutdown(ctx)
		return nil, err
	}
	a.Server = httpserver.NewServer(wireRouterConfig(log, cfg, sqlDB, a.Clients, a.Services, a.Metrics))
	return a, nil
}

// Start launches the background collectors. It is idempotent.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB.DB())
	if a.Clients.Redis != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
	}
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Server listening", "addr", addr, "env", a.Cfg.Env)
	return a.Server.Run(addr)
}

// Shutdown drains the HTTP server, then releases clients and flushes telemetry.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
		}
	}
	if a.flushSentry != nil {
		a.flushSentry()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
	return errors.Join(errs...)
}
