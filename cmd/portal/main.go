package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"github.com/lawyer4u/portal/internal/api"
	"github.com/lawyer4u/portal/internal/core/ports"
	"github.com/lawyer4u/portal/internal/infrastructure/backend"
	"github.com/lawyer4u/portal/internal/infrastructure/config"
	"github.com/lawyer4u/portal/internal/infrastructure/db/memory"
	mongodb "github.com/lawyer4u/portal/internal/infrastructure/db/mongo"
	"github.com/lawyer4u/portal/internal/infrastructure/db/postgres"
	redisdb "github.com/lawyer4u/portal/internal/infrastructure/db/redis"
	"github.com/lawyer4u/portal/pkg/logger"
)

const sweepInterval = 15 * time.Minute

var version = "dev"

// @title           Lawyer4u Portal
// @version         1.0
// @description     Server-rendered portal shell for the Lawyer4u legal marketplace.
// @BasePath        /
func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadPortal(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "portal",
		Version: version,
	})

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
			Release:     version,
		}); err != nil {
			log.Error().Err(err).Msg("failed to initialise sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	storage, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to open browser storage")
	}

	client := backend.NewClient(backend.Config{BaseURL: cfg.BackendURL, Timeout: cfg.BackendTimeout}, log)

	e := api.NewRouter(api.Deps{
		Storage:          storage,
		Backend:          client,
		Log:              log,
		BrowserSecret:    cfg.BrowserSecret,
		SecureCookie:     cfg.SecureCookie,
		RestoreWait:      cfg.RestoreWait,
		MaxLoginAttempts: cfg.LoginMaxAttempts,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("storage", cfg.StorageDriver).Str("backend", cfg.BackendURL).Msg("portal listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := storage.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to close browser storage")
	}
}

// openStorage connects the configured browser storage driver.
func openStorage(ctx context.Context, cfg *config.Portal, log zerolog.Logger) (ports.StorageBackend, error) {
	switch cfg.StorageDriver {
	case config.DriverRedis:
		storage, err := redisdb.Open(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.StorageTTL,
		})
		if err != nil {
			return nil, err
		}
		return storage, nil

	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "lawyer4u-portal",
		})
		if err != nil {
			return nil, err
		}
		storage := mongodb.NewStorage(client, db, cfg.StorageTTL)
		if err := storage.EnsureIndexes(ctx); err != nil {
			_ = storage.Close(ctx)
			return nil, err
		}
		return storage, nil

	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, err
		}
		storage := postgres.NewStorage(db, cfg.StorageTTL)
		go sweep(ctx, storage, log)
		return storage, nil

	default:
		log.Warn().Msg("using in-memory browser storage; sessions are lost on restart")
		storage := memory.NewWithTTL(cfg.StorageTTL)
		go sweep(ctx, storage, log)
		return storage, nil
	}
}

// sweeper is a storage driver that deletes its expired entries on demand.
type sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// sweep removes expired entries until ctx is cancelled.
func sweep(ctx context.Context, storage sweeper, log zerolog.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := storage.Sweep(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("browser storage sweep failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("browser storage swept")
			}
		}
	}
}
