// Package memory keeps workspace snapshots in process memory.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"uidlens/domain/core"
	"uidlens/domain/social"
	"uidlens/ports"
)

// snapshotStore holds the last saved snapshot as JSON, so loads go through
// the same re-hydration path as the durable stores
type snapshotStore struct {
	mu      sync.RWMutex
	payload []byte
}

// NewSnapshotStore creates an empty in-memory snapshot store
func NewSnapshotStore() ports.SnapshotStore {
	return &snapshotStore{}
}

// Load returns a fresh copy of the saved snapshot
func (s *snapshotStore) Load(ctx context.Context) (*social.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.payload == nil {
		return nil, core.ErrSnapshotMissing
	}
	var snapshot social.Snapshot
	if err := json.Unmarshal(s.payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// Save replaces the stored snapshot
func (s *snapshotStore) Save(ctx context.Context, snapshot *social.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	s.mu.Lock()
	s.payload = payload
	s.mu.Unlock()
	return nil
}
