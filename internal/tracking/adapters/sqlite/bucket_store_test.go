package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *BucketStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "buckets.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBucketStore_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, found, err := store.GetItem(ctx, "client-1", "EXPERIMENT1_GROUP"); err != nil || found {
		t.Fatalf("expected missing item, got found=%v err=%v", found, err)
	}

	if err := store.SetItem(ctx, "client-1", "EXPERIMENT1_GROUP", "control"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.SetItem(ctx, "client-1", "EXPERIMENT1_GROUP", "treatment"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	v, found, err := store.GetItem(ctx, "client-1", "EXPERIMENT1_GROUP")
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if v != "treatment" {
		t.Fatalf("expected last write to win, got %q", v)
	}
}

func TestBucketStore_ScopesAreIsolated(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SetItem(ctx, "a", "k", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found, err := store.GetItem(ctx, "b", "k"); err != nil || found {
		t.Fatalf("expected scope b to be empty, got found=%v err=%v", found, err)
	}
}

func TestBucketStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buckets.db")
	ctx := context.Background()

	first, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.SetItem(ctx, "c", "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	if v, found, err := second.GetItem(ctx, "c", "k"); err != nil || !found || v != "v" {
		t.Fatalf("expected persisted value, got %q found=%v err=%v", v, found, err)
	}
}
