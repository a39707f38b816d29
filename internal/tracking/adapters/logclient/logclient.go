package logclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"usage-telemetry-service/internal/platform/httpclient"
	"usage-telemetry-service/internal/tracking/core/domain"
	"usage-telemetry-service/internal/tracking/core/ports"
)

const Path = "/api/v3/general/log_client"

// Sink forwards client errors to the server's client log endpoint.
// Log returns immediately; failures are only logged at debug level.
type Sink struct {
	client  *httpclient.Client
	url     string
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func New(client *httpclient.Client, baseURL string, timeout time.Duration, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		client:  client,
		url:     strings.TrimRight(baseURL, "/") + Path,
		timeout: timeout,
		logger:  logger,
	}
}

var _ ports.ClientLog = (*Sink)(nil)

func (s *Sink) Log(entry domain.LogEntry) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.Send(ctx, entry); err != nil {
			s.logger.Debug("client log delivery failed", "url", s.url, "error", err)
		}
	}()
}

// Send posts a single entry and waits for the answer.
func (s *Sink) Send(ctx context.Context, entry domain.LogEntry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.PostJSON(ctx, s.url, nil, body)
}

// Close waits for in-flight posts or for ctx to end.
func (s *Sink) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
