package logclient

import (
	"usage-telemetry-service/internal/tracking/core/domain"
	"usage-telemetry-service/internal/tracking/core/ports"
)

// Multi fans an entry out to every log in order.
type Multi []ports.ClientLog

func (m Multi) Log(entry domain.LogEntry) {
	for _, l := range m {
		l.Log(entry)
	}
}
