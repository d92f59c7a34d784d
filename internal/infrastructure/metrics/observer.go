package metrics

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"media-studio/internal/utils/platformerrors"
)

// LifecycleObserver records lifecycle events as Prometheus metrics and logs.
type LifecycleObserver struct {
	log zerolog.Logger
}

func NewLifecycleObserver(log zerolog.Logger) *LifecycleObserver {
	return &LifecycleObserver{log: log.With().Str("component", "media-lifecycle").Logger()}
}

func (o *LifecycleObserver) RateLimited(ctx context.Context, key string) {
	operation, _, _ := strings.Cut(key, "_")
	RateLimitedTotal.WithLabelValues(operation).Inc()
	o.log.Warn().Str("rate_key", key).Str("request_id", requestID(ctx)).Msg("rate limit exceeded")
}

func (o *LifecycleObserver) RemoteFailure(ctx context.Context, operation, assetID string, err error) {
	RemoteFailuresTotal.WithLabelValues(operation).Inc()
	o.log.Error().
		Err(err).
		Str("operation", operation).
		Str("asset_id", assetID).
		Str("request_id", requestID(ctx)).
		Msg("asset store call failed")
}

func (o *LifecycleObserver) SelfHealed(ctx context.Context, assetID string, ownerID int) {
	SelfHealedTotal.Inc()
	o.log.Info().
		Str("asset_id", assetID).
		Int("owner_id", ownerID).
		Str("request_id", requestID(ctx)).
		Msg("asset missing remotely, marked deleted")
}

func (o *LifecycleObserver) Reclaimed(_ context.Context, processed int, err error) {
	ReclaimedTotal.Add(float64(processed))
	if err != nil {
		ReclaimRunsTotal.WithLabelValues("error").Inc()
		o.log.Error().Err(err).Int("processed", processed).Msg("temporary media reclamation failed")
		return
	}
	ReclaimRunsTotal.WithLabelValues("success").Inc()
	o.log.Info().Int("processed", processed).Msg("temporary media reclaimed")
}

func (o *LifecycleObserver) Operation(ctx context.Context, operation string, err error) {
	if err == nil {
		OperationsTotal.WithLabelValues(operation, "ok").Inc()
		return
	}
	errorType := platformerrors.TypeOf(err)
	OperationsTotal.WithLabelValues(operation, strings.ToLower(string(errorType))).Inc()
	if errorType == platformerrors.ErrorTypeInternal || errorType == platformerrors.ErrorTypeDatabaseError {
		o.log.Error().Err(err).Str("operation", operation).Str("request_id", requestID(ctx)).Msg("media operation failed")
	}
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(platformerrors.RequestIDKey{}).(string); ok {
		return id
	}
	return ""
}
