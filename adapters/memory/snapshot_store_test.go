package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uidlens/domain/core"
	"uidlens/domain/social"
)

func TestSnapshotStoreRoundTrip(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, core.ErrSnapshotMissing)

	last := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	profile := social.NewProfile("1", "Anh")
	profile.Record(social.KindFriends, social.RowOf("uid", "1", "b", "x", "a", "y"))
	profile.LastActive = &last

	snapshot := &social.Snapshot{
		WorkspaceID: "default",
		Files: []social.UploadedFile{{
			ID: "f1", Name: "friends.xlsx", Type: social.KindFriends,
			Data:       []social.Row{social.RowOf("uid", "1", "b", "x", "a", "y")},
			RowCount:   1,
			UploadDate: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		}},
		Profiles: []*social.Profile{profile},
	}
	require.NoError(t, store.Save(ctx, snapshot))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"uid", "b", "a"}, got.Files[0].Data[0].Keys())
	assert.True(t, got.Files[0].UploadDate.Equal(snapshot.Files[0].UploadDate))
	require.NotNil(t, got.Profiles[0].LastActive)
	assert.True(t, got.Profiles[0].LastActive.Equal(last))
	assert.Equal(t, 1, got.Profiles[0].FriendsCount)

	// mutating the loaded copy must not leak into the store
	got.Profiles[0].Name = "changed"
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Anh", again.Profiles[0].Name)
}
