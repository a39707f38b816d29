package usecase

import (
	"usage-telemetry-service/internal/observability/metrics"
	"usage-telemetry-service/internal/tracking/core/domain"
	"usage-telemetry-service/internal/tracking/core/ports"
)

// ErrorReporter is a page's global error handler: it ships every uncaught
// client error to the client log and, in developer mode, surfaces it on
// the page's developer console.
type ErrorReporter struct {
	log           ports.ClientLog
	console       ports.DeveloperConsole
	developerMode bool
}

// NewErrorReporter builds a reporter. console may be nil when developer
// mode is off.
func NewErrorReporter(log ports.ClientLog, console ports.DeveloperConsole, developerMode bool) *ErrorReporter {
	return &ErrorReporter{
		log:           log,
		console:       console,
		developerMode: developerMode,
	}
}

func (r *ErrorReporter) Report(e domain.ClientError) {
	metrics.ObserveClientError()
	r.log.Log(e.LogEntry())

	if r.developerMode && r.console != nil {
		r.console.StoreLastError(e.DeveloperNotice())
		r.console.EmitChange()
	}
}
