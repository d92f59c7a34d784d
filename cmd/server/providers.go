package main

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"media-studio/internal/config"
	domain "media-studio/internal/domain/media"
	"media-studio/internal/domain/transform"
	"media-studio/internal/infrastructure/assetstore"
	"media-studio/internal/infrastructure/crontab"
	"media-studio/internal/infrastructure/database"
	"media-studio/internal/infrastructure/ratelimit"
	"media-studio/internal/infrastructure/redisclient"
	"media-studio/internal/interfaces/httpserver"
)

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		WriteDSN:        cfg.GetDatabaseWriteDSN(),
		ReadDSN:         cfg.GetDatabaseReadDSN(),
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

// provideRedisClient returns nil when no Redis is configured.
func provideRedisClient(cfg *config.Config, log zerolog.Logger) (*redisclient.Client, error) {
	if !cfg.UsesRedis() {
		return nil, nil
	}
	return redisclient.New(cfg, log)
}

// provideAssetStore creates the asset store backend selected by configuration.
func provideAssetStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (domain.AssetStore, error) {
	if cfg.IsS3Storage() {
		s3Store, err := assetstore.NewS3Store(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	}
	return assetstore.NewImageKitStore(cfg, log), nil
}

// provideRateLimiter shares windows across replicas through Redis when it is
// configured and keeps them in process otherwise.
func provideRateLimiter(cfg *config.Config, client *redisclient.Client) domain.RateLimiter {
	if client == nil {
		return ratelimit.NewMemoryLimiter(ratelimit.FromConfig(cfg))
	}
	return ratelimit.NewRedisLimiter(client.Universal(), ratelimit.FromConfig(cfg))
}

func provideLocker(client *redisclient.Client) crontab.Locker {
	if client == nil {
		return nil
	}
	return client
}

func provideLocator(cfg *config.Config) *transform.Locator {
	return transform.NewLocator(cfg.RenderEndpoint)
}

func provideReadinessChecks(db *gorm.DB, client *redisclient.Client) []httpserver.ReadinessCheck {
	checks := []httpserver.ReadinessCheck{{
		Name: "postgres",
		Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if client != nil {
		checks = append(checks, httpserver.ReadinessCheck{Name: "redis", Check: client.HealthCheck})
	}
	return checks
}
