package memory

import (
	"context"
	"sync"

	"usage-telemetry-service/internal/tracking/core/ports"
)

// BucketStore keeps bucket items in process memory. Contents are lost on
// restart.
type BucketStore struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

func NewBucketStore() *BucketStore {
	return &BucketStore{items: make(map[string]map[string]string)}
}

var _ ports.BucketStore = (*BucketStore)(nil)

func (s *BucketStore) GetItem(ctx context.Context, scope, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[scope][key]
	return v, ok, nil
}

func (s *BucketStore) SetItem(ctx context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items[scope] == nil {
		s.items[scope] = make(map[string]string)
	}
	s.items[scope][key] = value
	return nil
}
