package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"usage-telemetry-service/internal/config"
	"usage-telemetry-service/internal/tracking/adapters/memory"
	trackingPg "usage-telemetry-service/internal/tracking/adapters/postgres"
	trackingRedis "usage-telemetry-service/internal/tracking/adapters/redis"
	trackingSqlite "usage-telemetry-service/internal/tracking/adapters/sqlite"
	"usage-telemetry-service/internal/tracking/core/ports"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openBucketStore opens the experiment store chosen by config. db is only
// used by the postgres store.
func openBucketStore(ctx context.Context, cfg *config.Config, db *sql.DB) (ports.BucketStore, io.Closer, error) {
	switch cfg.Experiment.Store {
	case config.StoreMemory:
		return memory.NewBucketStore(), nopCloser{}, nil

	case config.StoreSQLite:
		store, err := trackingSqlite.Open(cfg.Experiment.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case config.StorePostgres:
		store := trackingPg.NewBucketStore(trackingPg.NewSQLDB(db))
		if err := store.Migrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("migrate bucket store: %w", err)
		}
		return store, nopCloser{}, nil

	case config.StoreRedis:
		store, err := trackingRedis.NewBucketStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	default:
		return nil, nil, fmt.Errorf("unknown experiment store %q", cfg.Experiment.Store)
	}
}
