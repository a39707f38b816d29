package logclient

import (
	"log/slog"

	"usage-telemetry-service/internal/tracking/core/domain"
)

// Slog writes client errors to the process log.
type Slog struct {
	logger *slog.Logger
}

func NewSlog(logger *slog.Logger) *Slog {
	return &Slog{logger: logger}
}

func (s *Slog) Log(entry domain.LogEntry) {
	s.logger.Warn("client error", "client_level", entry.Level, "message", entry.Message)
}
