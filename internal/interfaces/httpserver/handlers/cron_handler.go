package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"media-studio/internal/config"
	domain "media-studio/internal/domain/media"
	"media-studio/internal/interfaces/httpserver/responses"
	"media-studio/internal/utils/platformerrors"
)

// ReclaimRunner runs one reclamation pass.
type ReclaimRunner interface {
	RunReclaim(ctx context.Context) domain.ReclaimResult
}

// CronHandler lets an external scheduler trigger maintenance jobs.
type CronHandler struct {
	cfg    *config.Config
	runner ReclaimRunner
	log    zerolog.Logger
}

func NewCronHandler(cfg *config.Config, runner ReclaimRunner, log zerolog.Logger) *CronHandler {
	return &CronHandler{
		cfg:    cfg,
		runner: runner,
		log:    log.With().Str("component", "cron-handler").Logger(),
	}
}

// ReclaimTemporary godoc
// @Summary      Reclaim temporary media
// @Description  Deletes temporary media older than the retention window. Requires the cron secret as bearer token.
// @Tags         cron
// @Produce      json
// @Success      200  {object}  responses.ReclaimResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ReclaimResponse
// @Security     CronSecret
// @Router       /v1/cron/reclaim-temporary [post]
func (h *CronHandler) ReclaimTemporary(c *gin.Context) {
	if !h.authorized(c.GetHeader("Authorization")) {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "invalid cron secret", "15bc3d4f-2a4e-4c6f-8b9d-0e1a3c5f7b92")
		return
	}

	result := h.runner.RunReclaim(c.Request.Context())
	if !result.Success {
		h.log.Error().Str("error", result.Error).Int("processed_count", result.ProcessedCount).Msg("temporary media reclamation failed")
		c.JSON(http.StatusInternalServerError, responses.ReclaimResponse{Success: false, Error: result.Error})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CronHandler) authorized(header string) bool {
	if h.cfg.CronSecret == "" {
		return false
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(h.cfg.CronSecret)) == 1
}
