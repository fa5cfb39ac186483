// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package threshold

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestSnapshotStore(t *testing.T) *RedisSnapshotStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisSnapshotStore(client, "")
}

func TestRedisSnapshotStoreSaveLoadRoundTrip(t *testing.T) {
	store := newTestSnapshotStore(t)
	ctx := context.Background()

	cache := NewCache()
	cache.Set("DRO Maximum Debt", Entry{Amount: 50000, Formatted: "£50,000.00", Source: "dro-manual.pdf"})
	cache.Set("DRO Income Limit", Entry{Amount: 75, Formatted: "£75.00", Source: "dro-manual.pdf"})

	if err := store.Save(ctx, cache); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	restored := NewCache()
	if err := store.Load(ctx, restored); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	entry, ok := restored.Lookup("dro_maximum_debt")
	if !ok {
		t.Fatal("Load() expected dro_maximum_debt to be restored")
	}
	if entry.Amount != 50000 || entry.Formatted != "£50,000.00" || entry.Source != "dro-manual.pdf" {
		t.Errorf("Load() restored entry = %+v, want the saved values", entry)
	}

	if restored.Len() != cache.Len() {
		t.Errorf("Load() restored %d entries, want %d", restored.Len(), cache.Len())
	}
}

func TestRedisSnapshotStoreLoadMissingKeyIsNotAnError(t *testing.T) {
	store := newTestSnapshotStore(t)

	cache := NewCache()
	cache.Set("stale", Entry{Amount: 1})

	if err := store.Load(context.Background(), cache); err != nil {
		t.Fatalf("Load() unexpected error for a missing key: %v", err)
	}

	// A missing snapshot key must leave the cache untouched rather than
	// wipe it, since the only caller to reach a missing key is a
	// brand-new deployment with nothing saved yet.
	if _, ok := cache.Lookup("stale"); !ok {
		t.Error("Load() should not clear the cache when no snapshot exists")
	}
}

func TestRedisSnapshotStoreUsesDefaultKeyWhenUnset(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisSnapshotStore(client, "")

	cache := NewCache()
	cache.Set("a", Entry{Amount: 1})
	if err := store.Save(context.Background(), cache); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	if !mr.Exists(defaultSnapshotKey) {
		t.Errorf("Save() with an empty key should fall back to %q", defaultSnapshotKey)
	}
}
