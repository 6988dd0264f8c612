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

	"github.com/lawyer4u/portal/internal/core/ports"
	"github.com/lawyer4u/portal/internal/core/service"
	"github.com/lawyer4u/portal/internal/devbackend"
	"github.com/lawyer4u/portal/internal/infrastructure/config"
	"github.com/lawyer4u/portal/internal/infrastructure/db/memory"
	mongodb "github.com/lawyer4u/portal/internal/infrastructure/db/mongo"
	"github.com/lawyer4u/portal/pkg/logger"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadDevBackend(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "devbackend",
	})

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Environment: cfg.Env}); err != nil {
			log.Error().Err(err).Msg("failed to initialise sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	var (
		repo       ports.AccountRepository
		disconnect = func(context.Context) error { return nil }
	)
	switch cfg.Store {
	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "lawyer4u-devbackend",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongo")
		}
		mongoRepo := mongodb.NewAccountRepository(db)
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to create account indexes")
		}
		repo, disconnect = mongoRepo, client.Disconnect
	default:
		repo = memory.NewAccountRepository()
	}

	accounts := service.NewAccountService(repo, cfg.JWTSecret, cfg.TokenTTL)
	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		admin, err := accounts.EnsureAdmin(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed admin account")
		}
		log.Info().Int64("user_id", admin.ID).Str("email", admin.Email).Msg("admin account ready")
	}

	e := devbackend.NewRouter(devbackend.Deps{
		Accounts:   accounts,
		Repository: repo,
		JWTSecret:  cfg.JWTSecret,
		Log:        log,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("store", cfg.Store).Msg("development backend listening")
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
	if err := disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to disconnect account store")
	}
}
