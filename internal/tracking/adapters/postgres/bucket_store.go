package postgres

import (
	"context"

	"usage-telemetry-service/internal/tracking/core/ports"
)

type BucketStore struct {
	db DB
}

func NewBucketStore(db DB) *BucketStore {
	return &BucketStore{db: db}
}

var _ ports.BucketStore = (*BucketStore)(nil)

const createBucketItemsSQL = `
CREATE TABLE IF NOT EXISTS bucket_items (
    scope      TEXT        NOT NULL,
    item_key   TEXT        NOT NULL,
    item_value TEXT        NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (scope, item_key)
);
`

const selectBucketItemSQL = `
SELECT item_value
FROM bucket_items
WHERE scope = $1 AND item_key = $2;
`

const upsertBucketItemSQL = `
INSERT INTO bucket_items (
    scope,
    item_key,
    item_value
) VALUES (
    $1, $2, $3
)
ON CONFLICT (scope, item_key) DO UPDATE
SET item_value = EXCLUDED.item_value,
    updated_at = now();
`

// Migrate creates the bucket_items table if it does not exist.
func (s *BucketStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createBucketItemsSQL)
	return err
}

func (s *BucketStore) GetItem(ctx context.Context, scope, key string) (string, bool, error) {
	rows, err := s.db.QueryContext(ctx, selectBucketItemSQL, scope, key)
	if err != nil {
		return "", false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return "", false, rows.Err()
	}

	var value string
	if err := rows.Scan(&value); err != nil {
		return "", false, err
	}
	return value, true, rows.Err()
}

func (s *BucketStore) SetItem(ctx context.Context, scope, key, value string) error {
	_, err := s.db.ExecContext(ctx, upsertBucketItemSQL, scope, key, value)
	return err
}
