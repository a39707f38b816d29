package sentrylog

import (
	"usage-telemetry-service/internal/tracking/core/domain"
	"usage-telemetry-service/internal/tracking/core/ports"

	"github.com/getsentry/sentry-go"
)

// Sink reports client errors to Sentry as error-level messages.
type Sink struct {
	hub *sentry.Hub
}

// New returns a sink on hub, or on the current hub when hub is nil.
func New(hub *sentry.Hub) *Sink {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return &Sink{hub: hub}
}

var _ ports.ClientLog = (*Sink)(nil)

func (s *Sink) Log(entry domain.LogEntry) {
	s.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(levelOf(entry.Level))
		scope.SetTag("source", "client")
		s.hub.CaptureMessage(entry.Message)
	})
}

func levelOf(level string) sentry.Level {
	switch level {
	case "DEBUG":
		return sentry.LevelDebug
	case "INFO":
		return sentry.LevelInfo
	case "WARN", "WARNING":
		return sentry.LevelWarning
	default:
		return sentry.LevelError
	}
}
