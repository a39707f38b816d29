package memory

import (
	"sync"

	"usage-telemetry-service/internal/tracking/core/domain"
)

// Console keeps a page's last developer notice and counts change signals.
type Console struct {
	mu      sync.Mutex
	last    *domain.DeveloperNotice
	version uint64
}

func NewConsole() *Console {
	return &Console{}
}

func (c *Console) StoreLastError(notice domain.DeveloperNotice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = &notice
}

func (c *Console) EmitChange() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
}

// LastError returns the stored notice and the number of change signals
// seen so far.
func (c *Console) LastError() (domain.DeveloperNotice, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return domain.DeveloperNotice{}, c.version, false
	}
	return *c.last, c.version, true
}
