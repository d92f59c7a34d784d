package handlers

import (
	"github.com/rs/zerolog"

	"media-studio/internal/config"
	domain "media-studio/internal/domain/media"
)

// Provider wires HTTP handlers.
type Provider struct {
	Media     *MediaHandler
	Transform *TransformHandler
	Cron      *CronHandler
}

func NewProvider(cfg *config.Config, service *domain.Service, runner ReclaimRunner, log zerolog.Logger) *Provider {
	return &Provider{
		Media:     NewMediaHandler(cfg, service, log),
		Transform: NewTransformHandler(service, log),
		Cron:      NewCronHandler(cfg, runner, log),
	}
}
