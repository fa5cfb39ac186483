// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package threshold

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultSnapshotKey = "debt-advice-engine:threshold-cache"

// RedisSnapshotStore persists the last-known-good Cache contents to
// Redis. The in-memory Cache stays authoritative and is always rebuilt
// from the knowledge store by Bootstrap on startup; the snapshot exists
// so a restarting process can answer immediately from the last good
// state while that rebuild runs, and so multiple engine processes
// converge on one snapshot.
type RedisSnapshotStore struct {
	client *redis.Client
	key    string
}

// NewRedisSnapshotStore wraps an existing Redis client. An empty key
// uses the package default.
func NewRedisSnapshotStore(client *redis.Client, key string) *RedisSnapshotStore {
	if key == "" {
		key = defaultSnapshotKey
	}
	return &RedisSnapshotStore{client: client, key: key}
}

// Save writes the current cache snapshot to Redis with no expiry.
func (r *RedisSnapshotStore) Save(ctx context.Context, cache *Cache) error {
	data, err := json.Marshal(cache.Snapshot())
	if err != nil {
		return fmt.Errorf("threshold snapshot: marshal failed: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("threshold snapshot: redis set failed: %w", err)
	}

	return nil
}

// Load populates cache from the last saved snapshot, if any. A missing
// key is not an error: the cache is simply left empty until Bootstrap runs.
func (r *RedisSnapshotStore) Load(ctx context.Context, cache *Cache) error {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("threshold snapshot: redis get failed: %w", err)
	}

	var snapshot map[string]Entry
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("threshold snapshot: unmarshal failed: %w", err)
	}

	cache.LoadSnapshot(snapshot)
	return nil
}
