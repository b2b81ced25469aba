package ports

import (
	"context"

	"uidlens/domain/social"
)

// SnapshotStore persists the uploaded files and derived profiles of one
// workspace. Load returns core.ErrSnapshotMissing when nothing was saved yet.
type SnapshotStore interface {
	Load(ctx context.Context) (*social.Snapshot, error)
	Save(ctx context.Context, snapshot *social.Snapshot) error
}
