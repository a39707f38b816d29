// Package session hosts one bootstrapped page per client id. Pages are
// created on first contact and kept in a bounded LRU.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"usage-telemetry-service/internal/observability/metrics"
	"usage-telemetry-service/internal/tracking/adapters/memory"
	"usage-telemetry-service/internal/tracking/core/domain"
	"usage-telemetry-service/internal/tracking/core/usecase"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const DefaultSize = 10000

var ErrInvalidClientID = errors.New("invalid client id")

type session struct {
	page    *usecase.Page
	wheel   *memory.Dispatcher[domain.RawEvent]
	clicks  *memory.Dispatcher[domain.Click]
	errs    *memory.Dispatcher[domain.ClientError]
	console *memory.Console
}

type Registry struct {
	setup  *usecase.PageSetupUseCase
	logger *slog.Logger

	sessions *lru.Cache[string, *session]
	creating singleflight.Group
}

func NewRegistry(setup *usecase.PageSetupUseCase, size int, logger *slog.Logger) (*Registry, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{setup: setup, logger: logger}

	cache, err := lru.NewWithEvict(size, func(clientID string, _ *session) {
		metrics.ObserveSessionEvicted()
		r.logger.Debug("session evicted", "client_id", clientID)
	})
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	r.sessions = cache
	return r, nil
}

// get returns the client's session, installing a new page on first contact.
// Concurrent first requests of one client share a single install; other
// clients are never held up by it.
func (r *Registry) get(ctx context.Context, clientID string) (*session, error) {
	if clientID == "" {
		return nil, ErrInvalidClientID
	}
	if s, ok := r.sessions.Get(clientID); ok {
		return s, nil
	}

	v, _, _ := r.creating.Do(clientID, func() (any, error) {
		if s, ok := r.sessions.Get(clientID); ok {
			return s, nil
		}
		return r.install(ctx, clientID), nil
	})
	return v.(*session), nil
}

func (r *Registry) install(ctx context.Context, clientID string) *session {
	s := &session{
		wheel:   memory.NewDispatcher[domain.RawEvent](),
		clicks:  memory.NewDispatcher[domain.Click](),
		errs:    memory.NewDispatcher[domain.ClientError](),
		console: memory.NewConsole(),
	}
	s.page = r.setup.Install(ctx, usecase.PageInput{
		ClientID: clientID,
		Wheel:    s.wheel,
		Clicks:   s.clicks,
		Errors:   s.errs,
		Console:  s.console,
	})
	r.sessions.Add(clientID, s)

	metrics.ObserveSessionCreated()
	r.logger.Debug("session created", "client_id", clientID)
	return s
}

func (r *Registry) PublishWheel(ctx context.Context, clientID string, events []domain.RawEvent) error {
	s, err := r.get(ctx, clientID)
	if err != nil {
		return err
	}
	for _, e := range events {
		s.wheel.Publish(e)
	}
	return nil
}

func (r *Registry) PublishClick(ctx context.Context, clientID string, c domain.Click) error {
	s, err := r.get(ctx, clientID)
	if err != nil {
		return err
	}
	s.clicks.Publish(c)
	return nil
}

func (r *Registry) PublishError(ctx context.Context, clientID string, e domain.ClientError) error {
	s, err := r.get(ctx, clientID)
	if err != nil {
		return err
	}
	s.errs.Publish(e)
	return nil
}

// Experiment returns the client's experiment group, assigning one if the
// page has none yet.
func (r *Registry) Experiment(ctx context.Context, clientID string) (domain.Group, error) {
	s, err := r.get(ctx, clientID)
	if err != nil {
		return "", err
	}
	return r.setup.ResolveGroup(ctx, s.page)
}

// LastError returns the last developer notice of a known client. Unknown
// clients are not created.
func (r *Registry) LastError(clientID string) (domain.DeveloperNotice, bool) {
	s, ok := r.sessions.Peek(clientID)
	if !ok {
		return domain.DeveloperNotice{}, false
	}
	n, _, found := s.console.LastError()
	return n, found
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}

// Drain waits for the scroll windows already scheduled by any page, evicted
// ones included, to emit their records.
func (r *Registry) Drain(ctx context.Context) error {
	return r.setup.Drain(ctx)
}
