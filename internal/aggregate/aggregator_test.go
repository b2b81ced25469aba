package aggregate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uidlens/domain/core"
	"uidlens/domain/social"
)

var uploaded = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func file(name string, kind social.DataKind, rows ...social.Row) social.UploadedFile {
	return social.UploadedFile{
		ID:         core.ID("f-" + name),
		Name:       name,
		Type:       kind,
		Data:       rows,
		RowCount:   len(rows),
		Processed:  true,
		SourceType: social.SourceProfile,
		UploadDate: uploaded,
		UploaderID: "tester",
	}
}

func TestAggregateFriendsAndPosts(t *testing.T) {
	files := []social.UploadedFile{
		file("friends_list.xlsx", social.KindFriends,
			social.RowOf("uid", "1", "name", "Anh"),
			social.RowOf("uid", "2", "name", "Binh"),
		),
		file("posts.xlsx", social.KindPosts,
			social.RowOf("uid", "1", "content", "hi", "posted_at", "2023-01-01"),
		),
	}

	profiles := Aggregate(files)
	require.Len(t, profiles, 2)

	one, two := profiles[0], profiles[1]
	assert.Equal(t, "1", one.UID)
	assert.Equal(t, "Anh", one.Name)
	assert.Equal(t, 1, one.FriendsCount)
	assert.Equal(t, 1, one.PostsCount)
	require.NotNil(t, one.LastActive)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), *one.LastActive)
	require.Len(t, one.Sources, 2)
	assert.Equal(t, "friends_list.xlsx", one.Sources[0].FileName)
	assert.Equal(t, social.KindPosts, one.Sources[1].FileType)
	assert.Equal(t, uploaded, one.Sources[1].Timestamp)

	assert.Equal(t, "2", two.UID)
	assert.Equal(t, "Binh", two.Name)
	assert.Equal(t, 1, two.FriendsCount)
	assert.Equal(t, 0, two.PostsCount)
	assert.Nil(t, two.LastActive)
}

func TestAggregateDropsRowsWithoutUID(t *testing.T) {
	files := []social.UploadedFile{
		file("posts.xlsx", social.KindPosts,
			social.RowOf("content", "hello", "likes", 3),
			social.RowOf("content", "again"),
		),
	}
	profiles := Aggregate(files)
	assert.NotNil(t, profiles)
	assert.Empty(t, profiles)
}

func TestAggregateOneSourcePerFilePerUID(t *testing.T) {
	files := []social.UploadedFile{
		file("comments.xlsx", social.KindComments,
			social.RowOf("uid", "7", "text", "a"),
			social.RowOf("uid", "7", "text", "b"),
			social.RowOf("uid", "7", "text", "c"),
		),
		file("comments_2.xlsx", social.KindComments,
			social.RowOf("uid", "7", "text", "d"),
		),
	}
	profiles := Aggregate(files)
	require.Len(t, profiles, 1)
	assert.Equal(t, 4, profiles[0].CommentsCount)
	assert.Len(t, profiles[0].Sources, 2)
}

func TestAggregateNameSetOnlyAtCreation(t *testing.T) {
	files := []social.UploadedFile{
		file("groups.xlsx", social.KindGroups, social.RowOf("uid", "9", "group_id", "g1")),
		file("friends.xlsx", social.KindFriends, social.RowOf("uid", "9", "name", "Late Name")),
	}
	profiles := Aggregate(files)
	require.Len(t, profiles, 1)
	assert.Empty(t, profiles[0].Name)
}

func TestAggregateUnknownKindCreatesEmptyProfile(t *testing.T) {
	files := []social.UploadedFile{
		file("export.xlsx", social.KindUnknown, social.RowOf("uid", "5", "name", "Chi", "date", "2022-06-01")),
	}
	profiles := Aggregate(files)
	require.Len(t, profiles, 1)
	p := profiles[0]
	assert.Equal(t, 0, p.Engagement())
	assert.Len(t, p.Sources, 1)
	require.NotNil(t, p.LastActive)
	assert.Equal(t, 2022, p.LastActive.Year())
}

func TestAggregateExtendedBuckets(t *testing.T) {
	files := []social.UploadedFile{
		file("events.xlsx", social.KindEvents, social.RowOf("uid", "1", "event", "x")),
		file("interactions.xlsx", social.KindInteractions, social.RowOf("uid", "1", "kind", "like")),
	}
	profiles := Aggregate(files)
	require.Len(t, profiles, 1)
	assert.Equal(t, 1, profiles[0].EventsCount)
	assert.Len(t, profiles[0].Data.Events, 1)
	assert.Equal(t, 1, profiles[0].InteractionsCount)
	assert.Len(t, profiles[0].Data.Interactions, 1)
}

func TestAggregateLastActiveIsMaximum(t *testing.T) {
	files := []social.UploadedFile{
		file("posts.xlsx", social.KindPosts,
			social.RowOf("uid", "1", "date", "2023-05-01"),
			social.RowOf("uid", "1", "date", "2021-01-01"),
			social.RowOf("uid", "1", "date", "garbage"),
		),
	}
	profiles := Aggregate(files)
	require.Len(t, profiles, 1)
	assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), *profiles[0].LastActive)
}

func TestAggregateCountersMatchBuckets(t *testing.T) {
	kinds := []social.DataKind{
		social.KindFriends, social.KindGroups, social.KindPosts, social.KindComments,
		social.KindPagesLiked, social.KindCheckIns, social.KindMessages, social.KindUnknown,
	}
	var files []social.UploadedFile
	for i, kind := range kinds {
		var rows []social.Row
		for j := 0; j <= i; j++ {
			rows = append(rows, social.RowOf("uid", fmt.Sprintf("u%d", j%3)))
		}
		files = append(files, file(string(kind)+".xlsx", kind, rows...))
	}

	for _, p := range Aggregate(files) {
		assert.Equal(t, len(p.Data.Friends), p.FriendsCount)
		assert.Equal(t, len(p.Data.Groups), p.GroupsCount)
		assert.Equal(t, len(p.Data.Posts), p.PostsCount)
		assert.Equal(t, len(p.Data.Comments), p.CommentsCount)
		assert.Equal(t, len(p.Data.PagesLiked), p.PagesLikedCount)
		assert.Equal(t, len(p.Data.CheckIns), p.CheckInsCount)
	}
}

func TestAggregateIsPureAndChunkIndependent(t *testing.T) {
	var rows []social.Row
	for i := 0; i < 250; i++ {
		rows = append(rows, social.RowOf("uid", fmt.Sprintf("u%d", i%17), "created_at", fmt.Sprintf("2023-01-%02d", i%28+1)))
	}
	files := []social.UploadedFile{
		file("friends.xlsx", social.KindFriends, rows...),
		file("posts.xlsx", social.KindPosts, rows[:90]...),
	}
	before := len(files[0].Data)

	want := Aggregate(files)
	again := Aggregate(files)
	assert.Equal(t, want, again)

	for _, size := range []int{1, 7, 64} {
		got, err := New(size).Aggregate(context.Background(), files)
		require.NoError(t, err)
		assert.Equal(t, want, got, "chunk size %d", size)
	}
	assert.Len(t, files[0].Data, before)
	assert.Len(t, want, 17)
}

func TestAggregateBucketsAreCopies(t *testing.T) {
	files := []social.UploadedFile{file("friends.xlsx", social.KindFriends, social.RowOf("uid", "1", "note", "orig"))}
	profiles := Aggregate(files)
	profiles[0].Data.Friends[0].Set("note", "changed")

	v, _ := files[0].Data[0].Get("note")
	assert.Equal(t, "orig", v)
}

func TestAggregateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	files := []social.UploadedFile{file("friends.xlsx", social.KindFriends, social.RowOf("uid", "1"))}
	profiles, err := New(10).Aggregate(ctx, files)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, profiles)
}

func TestAggregateReportsProgress(t *testing.T) {
	var rows []social.Row
	for i := 0; i < 25; i++ {
		rows = append(rows, social.RowOf("uid", fmt.Sprint(i)))
	}
	agg := New(10)
	var calls [][2]int
	agg.OnProgress = func(done, total int) { calls = append(calls, [2]int{done, total}) }

	_, err := agg.Aggregate(context.Background(), []social.UploadedFile{
		file("a.xlsx", social.KindFriends, rows...),
		file("b.xlsx", social.KindPosts, rows[:5]...),
	})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{10, 30}, {20, 30}, {25, 30}, {30, 30}}, calls)
}

func TestFind(t *testing.T) {
	profiles := Aggregate([]social.UploadedFile{file("f.xlsx", social.KindFriends, social.RowOf("uid", "1"))})
	p, ok := Find(profiles, "1")
	require.True(t, ok)
	assert.Equal(t, "1", p.UID)
	_, ok = Find(profiles, "2")
	assert.False(t, ok)
}
