package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"uidlens/domain/core"
	"uidlens/domain/social"
	"uidlens/ports"

	"github.com/jmoiron/sqlx"
)

// snapshotRepository implements ports.SnapshotStore over workspace_snapshots
type snapshotRepository struct {
	db          *sqlx.DB
	workspaceID string
}

// NewSnapshotRepository creates a snapshot store for one workspace
func NewSnapshotRepository(db *sqlx.DB, workspaceID string) ports.SnapshotStore {
	return &snapshotRepository{db: db, workspaceID: workspaceID}
}

// Load reads the workspace's snapshot payload
func (r *snapshotRepository) Load(ctx context.Context) (*social.Snapshot, error) {
	query := `SELECT payload FROM workspace_snapshots WHERE workspace_id = $1`

	var payload []byte
	err := r.db.QueryRowxContext(ctx, query, r.workspaceID).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrSnapshotMissing
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snapshot social.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// Save upserts the workspace's snapshot
func (r *snapshotRepository) Save(ctx context.Context, snapshot *social.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	savedAt := snapshot.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}

	query := `INSERT INTO workspace_snapshots (
		workspace_id, payload, file_count, profile_count, saved_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, NOW()
	)
	ON CONFLICT (workspace_id) DO UPDATE SET
		payload = EXCLUDED.payload,
		file_count = EXCLUDED.file_count,
		profile_count = EXCLUDED.profile_count,
		saved_at = EXCLUDED.saved_at,
		updated_at = NOW()`

	_, err = r.db.ExecContext(ctx, query,
		r.workspaceID, payload, len(snapshot.Files), len(snapshot.Profiles), savedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
