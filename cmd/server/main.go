package main

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/adapter"
	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/handler"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/ratelimit"
	"github.com/MKhiriev/go-task-keeper/internal/server"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/workers"
	"github.com/MKhiriev/go-task-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const connectTimeout = 10 * time.Second

func main() {
	printBuildInfo()

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("go-task-server", "info").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger("go-task-server", cfg.App.LogLevel)
	log.Debug().Str("http", cfg.Server.HTTPAddress).Str("grpc", cfg.Server.GRPCAddress).Msg("received configs")

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	// a failed ping is not fatal: revocation and rate limiting degrade
	cache, err := store.NewConnectRedis(ctx, cfg.Storage.Cache, log)
	if err != nil {
		log.Warn().Err(err).Msg("starting without redis")
	}
	defer cache.Close()

	relay, err := newMailRelay(cfg.Adapter.Mail, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating mail relay")
	}
	mailDispatcher := workers.NewMailDispatcher(relay, cfg.Workers.MailQueueSize, cfg.Workers.MailWorkers, log)

	storages := store.NewStorages(db, cache, log)

	build := models.AppInfo{BuildDate: buildDate, BuildCommit: buildCommit}
	services, err := service.NewServices(storages, mailDispatcher, *cfg, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	limiter := ratelimit.NewFallbackLimiter(
		ratelimit.NewSlidingWindowLimiter(cache),
		ratelimit.NewFixedWindowLimiter(),
		cfg.RateLimit.Timeout,
		log,
	)
	sweeper, err := workers.NewCronSweeper(limiter, cfg.RateLimit.SweepSchedule, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating rate limit sweeper")
	}

	handlers, err := handler.NewHandlers(services, limiter, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, workers.NewWorkers(mailDispatcher, sweeper), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// newMailRelay falls back to logging mail when no relay URL is configured.
func newMailRelay(cfg config.Mail, log *logger.Logger) (adapter.MailRelay, error) {
	if cfg.BaseURL == "" {
		log.Warn().Msg("mail relay is not configured, outgoing mail will only be logged")
		return adapter.NewLogMailRelay(log), nil
	}
	return adapter.NewHTTPMailRelay(cfg, log)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
