package metrics

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"media-studio/internal/utils/platformerrors"
)

func TestLifecycleObserverCountsEvents(t *testing.T) {
	var buf bytes.Buffer
	observer := NewLifecycleObserver(zerolog.New(&buf))
	ctx := context.WithValue(context.Background(), platformerrors.RequestIDKey{}, "req-1")

	healedBefore := testutil.ToFloat64(SelfHealedTotal)
	limitedBefore := testutil.ToFloat64(RateLimitedTotal.WithLabelValues("deleteMedia"))
	reclaimedBefore := testutil.ToFloat64(ReclaimedTotal)

	observer.SelfHealed(ctx, "asset_1", 7)
	observer.RateLimited(ctx, "deleteMedia_7")
	observer.Reclaimed(ctx, 3, nil)
	observer.RemoteFailure(ctx, "deleteMedia", "asset_2", errors.New("boom"))

	assert.Equal(t, healedBefore+1, testutil.ToFloat64(SelfHealedTotal))
	assert.Equal(t, limitedBefore+1, testutil.ToFloat64(RateLimitedTotal.WithLabelValues("deleteMedia")))
	assert.Equal(t, reclaimedBefore+3, testutil.ToFloat64(ReclaimedTotal))
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"asset_id":"asset_2"`)
}

func TestLifecycleObserverLabelsOutcome(t *testing.T) {
	observer := NewLifecycleObserver(zerolog.Nop())
	err := platformerrors.NewError(context.Background(), platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "missing", nil, "")

	before := testutil.ToFloat64(OperationsTotal.WithLabelValues("getMedia", "not_found"))
	observer.Operation(context.Background(), "getMedia", err)
	assert.Equal(t, before+1, testutil.ToFloat64(OperationsTotal.WithLabelValues("getMedia", "not_found")))
}
