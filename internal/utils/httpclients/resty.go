package httpclients

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"media-studio/internal/utils/platformerrors"
)

type HTTPClientStartsAt struct{}

// NewClient returns a resty client that forwards the caller's request id and
// logs every exchange at debug level. Bodies are not logged since they carry
// media bytes.
func NewClient(clientName string, timeout time.Duration, log zerolog.Logger) *resty.Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(0)
	client.AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
		ctx := context.WithValue(r.Context(), HTTPClientStartsAt{}, time.Now())
		if requestID, ok := ctx.Value(platformerrors.RequestIDKey{}).(string); ok && requestID != "" {
			r.SetHeader("X-Request-ID", requestID)
		}
		r.SetContext(ctx)
		return nil
	})
	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		startTime, _ := r.Request.Context().Value(HTTPClientStartsAt{}).(time.Time)
		requestID, _ := r.Request.Context().Value(platformerrors.RequestIDKey{}).(string)

		event := log.Debug().
			Str("request_id", requestID).
			Str("client", clientName).
			Int("status", r.StatusCode()).
			Dur("latency", time.Since(startTime))
		if r.Request.RawRequest != nil {
			event = event.
				Str("method", r.Request.RawRequest.Method).
				Str("path", r.Request.RawRequest.URL.Path)
		}
		event.Msg("HTTP client request")
		return nil
	})
	return client
}
