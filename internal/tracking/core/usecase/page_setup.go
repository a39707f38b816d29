package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"usage-telemetry-service/internal/platform/clock"
	"usage-telemetry-service/internal/tracking/core/domain"
	"usage-telemetry-service/internal/tracking/core/ports"
)

// OnLoad is an ordered chain of load hooks. Appending never replaces an
// earlier hook.
type OnLoad struct {
	hooks []func(context.Context)
}

func (o *OnLoad) Append(fn func(context.Context)) {
	o.hooks = append(o.hooks, fn)
}

// Fire runs the hooks in the order they were appended.
func (o *OnLoad) Fire(ctx context.Context) {
	for _, hook := range o.hooks {
		hook(ctx)
	}
}

type PageConfig struct {
	Window        time.Duration
	LatestOrigin  bool
	DeveloperMode bool
}

// PageInput carries the collaborators of one page: where its events come
// from, where developer notices go, and an optional render step that runs
// once the error handler is in place.
type PageInput struct {
	ClientID string
	Wheel    ports.Source[domain.RawEvent]
	Clicks   ports.Source[domain.Click]
	Errors   ports.Source[domain.ClientError]
	Console  ports.DeveloperConsole
	Render   func()
}

// Page is a bootstrapped client page with its trackers installed.
type Page struct {
	ClientID string
	Batcher  *EventBatcher
	Clicks   *ClickTracker
	Errors   *ErrorReporter

	mu    sync.Mutex
	group domain.Group
}

// Group returns the experiment group resolved during setup, if any.
func (p *Page) Group() (domain.Group, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.group, p.group != ""
}

func (p *Page) setGroup(g domain.Group) {
	p.mu.Lock()
	p.group = g
	p.mu.Unlock()
}

type PageSetupUseCase struct {
	sink        ports.EmissionSink
	clientLog   ports.ClientLog
	experiments *ExperimentAssigner
	clock       clock.Clock
	cfg         PageConfig
	logger      *slog.Logger

	// scroll windows scheduled by any page, evicted ones included
	windows sync.WaitGroup
}

func NewPageSetupUseCase(
	sink ports.EmissionSink,
	clientLog ports.ClientLog,
	experiments *ExperimentAssigner,
	clk clock.Clock,
	cfg PageConfig,
	logger *slog.Logger,
) *PageSetupUseCase {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PageSetupUseCase{
		sink:        sink,
		clientLog:   clientLog,
		experiments: experiments,
		clock:       clk,
		cfg:         cfg,
		logger:      logger,
	}
}

// Install wires a page: error handler and render, click tracking, scroll
// tracking and the experiment group, in that order. A failing step is
// logged and does not stop the others.
func (uc *PageSetupUseCase) Install(ctx context.Context, in PageInput) *Page {
	opts := []BatcherOption{WithClock(uc.clock), WithWindow(uc.cfg.Window), WithInFlight(&uc.windows)}
	if uc.cfg.LatestOrigin {
		opts = append(opts, WithLatestOrigin())
	}

	page := &Page{
		ClientID: in.ClientID,
		Batcher:  NewEventBatcher(uc.sink, opts...),
		Clicks:   NewClickTracker(uc.sink),
		Errors:   NewErrorReporter(uc.clientLog, in.Console, uc.cfg.DeveloperMode),
	}

	var onLoad OnLoad
	onLoad.Append(func(context.Context) {
		if in.Errors != nil {
			in.Errors.Subscribe(page.Errors.Report)
		}
		if in.Render != nil {
			in.Render()
		}
	})
	onLoad.Append(func(context.Context) {
		if in.Clicks != nil {
			in.Clicks.Subscribe(page.Clicks.Track)
		}
	})
	onLoad.Append(func(context.Context) {
		if in.Wheel != nil {
			in.Wheel.Subscribe(page.Batcher.OnEvent)
		}
	})
	onLoad.Append(func(ctx context.Context) {
		if uc.experiments == nil {
			return
		}
		group, err := uc.experiments.Setup(ctx, in.ClientID)
		if err != nil {
			uc.logger.Warn("experiment setup failed", "client_id", in.ClientID, "error", err)
			return
		}
		page.setGroup(group)
	})
	onLoad.Fire(ctx)

	return page
}

// ResolveGroup returns the page's group, running experiment setup again if
// it did not complete when the page was installed.
func (uc *PageSetupUseCase) ResolveGroup(ctx context.Context, page *Page) (domain.Group, error) {
	if g, ok := page.Group(); ok {
		return g, nil
	}
	if uc.experiments == nil {
		return "", ErrBucketStore
	}
	group, err := uc.experiments.Setup(ctx, page.ClientID)
	if err != nil {
		return "", err
	}
	page.setGroup(group)
	return group, nil
}

// Drain waits until every scheduled scroll window has handed its record to
// the sink, or until ctx ends. Callers stop feeding events first.
func (uc *PageSetupUseCase) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.windows.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
