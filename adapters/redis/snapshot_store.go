// Package redis stores workspace snapshots as JSON strings in redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"uidlens/domain/core"
	"uidlens/domain/social"
	"uidlens/ports"
)

// snapshotStore keeps one snapshot under a fixed key
type snapshotStore struct {
	client *goredis.Client
	key    string
	ttl    time.Duration
}

// NewSnapshotStore creates a store writing to key. A zero ttl keeps the
// snapshot until overwritten.
func NewSnapshotStore(client *goredis.Client, key string, ttl time.Duration) ports.SnapshotStore {
	return &snapshotStore{client: client, key: key, ttl: ttl}
}

// Load reads and decodes the snapshot
func (s *snapshotStore) Load(ctx context.Context) (*social.Snapshot, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, core.ErrSnapshotMissing
		}
		return nil, fmt.Errorf("failed to load snapshot %s: %w", s.key, err)
	}

	var snapshot social.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", s.key, err)
	}
	return &snapshot, nil
}

// Save encodes and writes the snapshot
func (s *snapshotStore) Save(ctx context.Context, snapshot *social.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", s.key, err)
	}
	log.Printf("[RedisSnapshotStore] saved %s (%d files, %d profiles, %d bytes)",
		s.key, len(snapshot.Files), len(snapshot.Profiles), len(payload))
	return nil
}
