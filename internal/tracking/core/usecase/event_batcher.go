package usecase

import (
	"sync"
	"time"

	"usage-telemetry-service/internal/observability/metrics"
	"usage-telemetry-service/internal/platform/clock"
	"usage-telemetry-service/internal/tracking/core/domain"
	"usage-telemetry-service/internal/tracking/core/ports"
)

// DefaultWindow is how long a burst stays open after its first event.
const DefaultWindow = time.Second

// EventBatcher turns a stream of wheel events into one WindowScrolled
// record per window. The window opens with the first event of a burst and
// closes a fixed time later; events arriving in between do not extend it.
type EventBatcher struct {
	sink         ports.EmissionSink
	clock        clock.Clock
	window       time.Duration
	latestOrigin bool
	inFlight     *sync.WaitGroup

	mu     sync.Mutex
	burst  *domain.Burst // nil while no window is pending
	origin string
}

type BatcherOption func(*EventBatcher)

// WithWindow sets the window length. Non-positive values keep the default.
func WithWindow(d time.Duration) BatcherOption {
	return func(b *EventBatcher) {
		if d > 0 {
			b.window = d
		}
	}
}

// WithClock sets the clock windows are scheduled on. Nil keeps the real
// clock.
func WithClock(c clock.Clock) BatcherOption {
	return func(b *EventBatcher) {
		if c != nil {
			b.clock = c
		}
	}
}

// WithInFlight counts each scheduled window on wg until its record has been
// handed to the sink.
func WithInFlight(wg *sync.WaitGroup) BatcherOption {
	return func(b *EventBatcher) {
		b.inFlight = wg
	}
}

// WithLatestOrigin attributes a record to the origin of the last event
// received before the window closed. By default the record carries the
// origin of the event that opened the window.
func WithLatestOrigin() BatcherOption {
	return func(b *EventBatcher) {
		b.latestOrigin = true
	}
}

func NewEventBatcher(sink ports.EmissionSink, opts ...BatcherOption) *EventBatcher {
	b := &EventBatcher{
		sink:   sink,
		clock:  clock.Real(),
		window: DefaultWindow,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OnEvent adds e to the open burst, opening a burst and scheduling its
// window when none is pending.
func (b *EventBatcher) OnEvent(e domain.RawEvent) {
	metrics.ObserveWheelEvent()

	b.mu.Lock()
	opened := b.burst == nil
	if opened {
		b.burst = domain.NewBurst(e)
		b.origin = e.Origin
	} else {
		b.burst.Append(e)
		if b.latestOrigin {
			b.origin = e.Origin
		}
	}
	b.mu.Unlock()

	if opened {
		if b.inFlight != nil {
			b.inFlight.Add(1)
		}
		b.clock.AfterFunc(b.window, b.closeWindow)
	}
}

// Pending reports whether a window is currently scheduled.
func (b *EventBatcher) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.burst != nil
}

func (b *EventBatcher) closeWindow() {
	b.mu.Lock()
	burst, origin := b.burst, b.origin
	b.burst, b.origin = nil, ""
	b.mu.Unlock()

	if burst == nil {
		return
	}
	if b.inFlight != nil {
		defer b.inFlight.Done()
	}
	record := burst.Aggregate(origin)
	metrics.ObserveWindow(burst.Len())

	// A panicking sink must not take the timer goroutine down.
	defer func() { _ = recover() }()
	b.sink.Emit(record, domain.EventWindowScrolled)
}
