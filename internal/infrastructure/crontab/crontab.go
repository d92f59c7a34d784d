package crontab

import (
	"context"
	"errors"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"

	"media-studio/internal/config"
	domain "media-studio/internal/domain/media"
	"media-studio/internal/infrastructure/redisclient"
	"media-studio/internal/utils/platformerrors"
)

const (
	CronJobTimeout = 10 * time.Minute // Timeout for each cron job execution
	reclaimLock    = "media-studio:reclaim-temporary"
)

// Reclaimer is the scheduled reclamation entry point.
type Reclaimer interface {
	Reclaim(ctx context.Context) domain.ReclaimResult
}

// Locker serialises a job across replicas.
type Locker interface {
	WithLock(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context) error) error
}

type Crontab struct {
	ctab      *crontab.Crontab
	cfg       *config.Config
	reclaimer Reclaimer
	locker    Locker
	log       zerolog.Logger
}

// NewCrontab builds the scheduler. locker may be nil for a single replica.
func NewCrontab(cfg *config.Config, reclaimer Reclaimer, locker Locker, log zerolog.Logger) *Crontab {
	return &Crontab{
		ctab:      crontab.New(),
		cfg:       cfg,
		reclaimer: reclaimer,
		locker:    locker,
		log:       log.With().Str("component", "crontab").Logger(),
	}
}

// Run schedules the reclamation job and blocks until ctx is done.
func (c *Crontab) Run(ctx context.Context) error {
	if !c.cfg.ReclaimEnabled {
		c.log.Info().Msg("temporary media reclamation disabled")
		return nil
	}

	if err := c.ctab.AddJob(c.cfg.ReclaimSchedule, func() {
		jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), CronJobTimeout)
		defer cancel()
		c.RunReclaim(jobCtx)
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add reclaim job")
	}
	c.log.Info().Str("schedule", c.cfg.ReclaimSchedule).Msg("temporary media reclamation scheduled")

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

// RunReclaim performs one reclamation run, under the shared lock when one is
// configured. A run already in progress elsewhere is skipped.
func (c *Crontab) RunReclaim(ctx context.Context) domain.ReclaimResult {
	if c.locker == nil {
		return c.reclaimer.Reclaim(ctx)
	}

	var result domain.ReclaimResult
	err := c.locker.WithLock(ctx, reclaimLock, CronJobTimeout, func(ctx context.Context) error {
		result = c.reclaimer.Reclaim(ctx)
		return nil
	})
	if errors.Is(err, redisclient.ErrLockHeld) {
		c.log.Info().Msg("reclamation already running on another replica")
		return domain.ReclaimResult{Success: true}
	}
	if err != nil {
		c.log.Error().Err(err).Msg("failed to acquire reclaim lock")
		return domain.ReclaimResult{Success: false, Error: "Failed to clean up temporary files"}
	}
	return result
}
