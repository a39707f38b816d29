package redis

import (
	"context"
	"errors"
	"fmt"

	"usage-telemetry-service/internal/tracking/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "bucket:"

// BucketStore keeps bucket items as plain Redis strings under
// bucket:<scope>:<key>, without expiration.
type BucketStore struct {
	client *goredis.Client
}

// NewBucketStore connects to Redis and pings it to ensure connectivity.
func NewBucketStore(ctx context.Context, addr, password string, db int) (*BucketStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &BucketStore{client: rdb}, nil
}

var _ ports.BucketStore = (*BucketStore)(nil)

func itemKey(scope, key string) string {
	return keyPrefix + scope + ":" + key
}

func (s *BucketStore) GetItem(ctx context.Context, scope, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, itemKey(scope, key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *BucketStore) SetItem(ctx context.Context, scope, key, value string) error {
	return s.client.Set(ctx, itemKey(scope, key), value, 0).Err()
}

func (s *BucketStore) Close() error {
	return s.client.Close()
}
