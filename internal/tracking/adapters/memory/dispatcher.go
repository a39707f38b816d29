package memory

import (
	"sync"

	"usage-telemetry-service/internal/tracking/core/ports"
)

// Dispatcher is an in-process event source. Publish hands a value to every
// subscriber, in subscription order, on the caller's goroutine.
type Dispatcher[T any] struct {
	mu       sync.RWMutex
	handlers []func(T)
}

func NewDispatcher[T any]() *Dispatcher[T] {
	return &Dispatcher[T]{}
}

var _ ports.Source[int] = (*Dispatcher[int])(nil)

func (d *Dispatcher[T]) Subscribe(handler func(T)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, handler)
}

func (d *Dispatcher[T]) Publish(v T) {
	d.mu.RLock()
	handlers := d.handlers
	d.mu.RUnlock()

	for _, h := range handlers {
		h(v)
	}
}
