package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"media-studio/internal/config"
	domain "media-studio/internal/domain/media"
	"media-studio/internal/infrastructure/auth"
	"media-studio/internal/infrastructure/crontab"
	"media-studio/internal/infrastructure/logger"
	"media-studio/internal/infrastructure/metrics"
	"media-studio/internal/infrastructure/observability"
	repo "media-studio/internal/infrastructure/repository/media"
	"media-studio/internal/interfaces/httpserver"
)

// @title Media Studio API
// @version 1.0
// @description Media library, image transformations and temporary upload lifecycle.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey CronSecret
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	crontab    *crontab.Crontab
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, cron *crontab.Crontab, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		crontab:    cron,
		log:        log,
	}
}

// Start runs the HTTP server and the scheduler until ctx is cancelled or
// either stops with an error.
func (a *Application) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.httpServer.Run(ctx) })
	g.Go(func() error { return a.crontab.Run(ctx) })
	return g.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := newGormDB(ctx, newDatabaseConfig(cfg), log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	redisClient, err := provideRedisClient(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	assetStore, err := provideAssetStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize asset store")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth")
	}
	defer authValidator.Close()

	mediaService := domain.NewService(
		cfg,
		repo.NewRepository(db),
		assetStore,
		provideRateLimiter(cfg, redisClient),
		provideLocator(cfg),
		metrics.NewLifecycleObserver(log),
	)

	cron := crontab.NewCrontab(cfg, mediaService, provideLocker(redisClient), log)
	httpServer := httpserver.New(cfg, log, mediaService, cron, authValidator, provideReadinessChecks(db, redisClient))
	app := NewApplication(httpServer, cron, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
