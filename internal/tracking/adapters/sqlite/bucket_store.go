package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"usage-telemetry-service/internal/tracking/core/ports"

	_ "modernc.org/sqlite" // CGO-free SQLite
)

// BucketStore persists bucket items in a local SQLite file.
type BucketStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*BucketStore, error) {
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &BucketStore{db: db}, nil
}

var _ ports.BucketStore = (*BucketStore)(nil)

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS bucket_items(
	  scope      TEXT    NOT NULL,
	  item_key   TEXT    NOT NULL,
	  item_value TEXT    NOT NULL,
	  updated_at INTEGER NOT NULL DEFAULT (unixepoch()),
	  PRIMARY KEY (scope, item_key)
	);
	`)
	if err != nil {
		return fmt.Errorf("failed to create bucket tables: %w", err)
	}
	return nil
}

func (s *BucketStore) Close() error {
	return s.db.Close()
}

func (s *BucketStore) GetItem(ctx context.Context, scope, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT item_value FROM bucket_items WHERE scope = ? AND item_key = ?`,
		scope, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read bucket item: %w", err)
	}
	return value, true, nil
}

func (s *BucketStore) SetItem(ctx context.Context, scope, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO bucket_items(scope, item_key, item_value) VALUES(?,?,?)
	ON CONFLICT(scope, item_key) DO UPDATE
	SET item_value = excluded.item_value, updated_at = unixepoch()`,
		scope, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write bucket item: %w", err)
	}
	return nil
}
