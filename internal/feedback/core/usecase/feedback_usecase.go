package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"usage-telemetry-service/internal/feedback/core/domain"
	"usage-telemetry-service/internal/feedback/core/ports"
	"usage-telemetry-service/internal/observability/metrics"
	"usage-telemetry-service/internal/platform/clock"

	"github.com/google/uuid"
)

var (
	ErrInvalidPayload = errors.New("payload must encode to a JSON object")
	ErrClosed         = errors.New("feedback delivery closed")
)

const DefaultDeliveryTimeout = 5 * time.Second

// FeedbackUseCase turns emitted payloads into envelopes and delivers them to
// every transport in the background. Emit never blocks on the network and
// never reports failures to the caller.
type FeedbackUseCase struct {
	transports []ports.Transport
	clock      clock.Clock
	newID      func() uuid.UUID
	timeout    time.Duration
	logger     *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

type FeedbackOption func(*FeedbackUseCase)

func WithDeliveryTimeout(d time.Duration) FeedbackOption {
	return func(uc *FeedbackUseCase) {
		if d > 0 {
			uc.timeout = d
		}
	}
}

func WithFeedbackClock(c clock.Clock) FeedbackOption {
	return func(uc *FeedbackUseCase) {
		if c != nil {
			uc.clock = c
		}
	}
}

// WithIDGenerator replaces uuid.New, mostly for tests.
func WithIDGenerator(fn func() uuid.UUID) FeedbackOption {
	return func(uc *FeedbackUseCase) {
		if fn != nil {
			uc.newID = fn
		}
	}
}

func NewFeedbackUseCase(transports []ports.Transport, logger *slog.Logger, opts ...FeedbackOption) *FeedbackUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	uc := &FeedbackUseCase{
		transports: transports,
		clock:      clock.Real(),
		newID:      uuid.New,
		timeout:    DefaultDeliveryTimeout,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Emit implements the tracking emission sink.
func (uc *FeedbackUseCase) Emit(payload any, eventType string) {
	env, err := uc.BuildEnvelope(payload, eventType)
	if err != nil {
		uc.logger.Debug("feedback dropped", "event_type", eventType, "error", err)
		metrics.ObserveDelivery("envelope", metrics.ResultError)
		return
	}

	uc.mu.Lock()
	if uc.closed {
		uc.mu.Unlock()
		uc.logger.Debug("feedback dropped", "event_type", eventType, "error", ErrClosed)
		return
	}
	uc.wg.Add(len(uc.transports))
	uc.mu.Unlock()

	for _, t := range uc.transports {
		go uc.deliver(t, env)
	}
}

func (uc *FeedbackUseCase) deliver(t ports.Transport, env domain.Envelope) {
	defer uc.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), uc.timeout)
	defer cancel()

	if err := t.Deliver(ctx, env); err != nil {
		metrics.ObserveDelivery(t.Name(), metrics.ResultError)
		uc.logger.Debug("feedback delivery failed",
			"transport", t.Name(),
			"event_type", env.EventType,
			"event_id", env.ID.String(),
			"error", err,
		)
		return
	}
	metrics.ObserveDelivery(t.Name(), metrics.ResultSuccess)
}

// BuildEnvelope encodes payload, adds the @timestamp field and assigns a
// fresh event id.
func (uc *FeedbackUseCase) BuildEnvelope(payload any, eventType string) (domain.Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return domain.Envelope{}, ErrInvalidPayload
	}

	now := uc.clock.Now().UTC()
	ts, err := json.Marshal(now.Format(domain.TimestampLayout))
	if err != nil {
		return domain.Envelope{}, err
	}
	fields[domain.TimestampField] = ts

	body, err := json.Marshal(fields)
	if err != nil {
		return domain.Envelope{}, err
	}

	return domain.Envelope{
		ID:        uc.newID(),
		EventType: eventType,
		Timestamp: now,
		Body:      body,
	}, nil
}

// Close stops accepting payloads and waits for in-flight deliveries or
// for ctx to end.
func (uc *FeedbackUseCase) Close(ctx context.Context) error {
	uc.mu.Lock()
	uc.closed = true
	uc.mu.Unlock()

	done := make(chan struct{})
	go func() {
		uc.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
