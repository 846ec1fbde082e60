// Package telemetry records named operation events and exceptions.
//
// Calls are fire-and-forget: nothing here returns an error or blocks on a
// remote sink. Events become Prometheus counters and debug logs; exceptions
// are counted, logged at error level and, when Sentry is initialized,
// captured on the request's hub.
package telemetry

import (
	"context"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/reflectionapp/reflection/api/internal/pkg/metrics"
)

// Client is the telemetry sink used by the values services
type Client interface {
	TrackEvent(ctx context.Context, name string)
	TrackException(ctx context.Context, err error)
}

// Recorder is the default Client
type Recorder struct {
	logger        *zap.Logger
	sentryEnabled bool
}

// NewRecorder creates a Recorder. Safe for concurrent use.
func NewRecorder(logger *zap.Logger, sentryEnabled bool) *Recorder {
	return &Recorder{
		logger:        logger,
		sentryEnabled: sentryEnabled,
	}
}

// TrackEvent implements Client
func (r *Recorder) TrackEvent(ctx context.Context, name string) {
	metrics.RecordEvent(name)
	r.logger.Debug("telemetry event", zap.String("event", name))
}

// TrackException implements Client
func (r *Recorder) TrackException(ctx context.Context, err error) {
	if err == nil {
		return
	}

	metrics.RecordException()
	r.logger.Error("telemetry exception", zap.Error(err))

	if !r.sentryEnabled {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}

// Nop discards everything
type Nop struct{}

func (Nop) TrackEvent(context.Context, string)    {}
func (Nop) TrackException(context.Context, error) {}
