//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"media-studio/internal/config"
	domain "media-studio/internal/domain/media"
	"media-studio/internal/infrastructure/auth"
	"media-studio/internal/infrastructure/crontab"
	"media-studio/internal/infrastructure/logger"
	"media-studio/internal/infrastructure/metrics"
	repo "media-studio/internal/infrastructure/repository/media"
	"media-studio/internal/interfaces/httpserver"
	"media-studio/internal/interfaces/httpserver/handlers"
)

var mediaSet = wire.NewSet(
	repo.NewRepository,
	wire.Bind(new(domain.Repository), new(*repo.Repository)),
	provideAssetStore,
	provideRateLimiter,
	provideLocator,
	metrics.NewLifecycleObserver,
	wire.Bind(new(domain.Observer), new(*metrics.LifecycleObserver)),
	domain.NewService,
)

var cronSet = wire.NewSet(
	provideLocker,
	wire.Bind(new(crontab.Reclaimer), new(*domain.Service)),
	crontab.NewCrontab,
	wire.Bind(new(handlers.ReclaimRunner), new(*crontab.Crontab)),
)

// BuildApplication assembles the media studio service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		auth.NewValidator,
		newDatabaseConfig,
		newGormDB,
		provideRedisClient,
		provideReadinessChecks,
		mediaSet,
		cronSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}
