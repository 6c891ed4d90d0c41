package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/testutil"
)

func TestActivityRepository_Feed(t *testing.T) {
	db := testutil.NewDB(t)
	follows := NewFollowRepository(db)
	feed := NewActivityRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	album := testutil.CreateAlbum(t, db, "spX", "Homogenic", "Björk")

	now := time.Now().UTC()
	testutil.CreateReview(t, db, bob.ID, album.ID, 5, now.Add(-3*time.Minute))
	testutil.CreateReview(t, db, carol.ID, album.ID, 2, now.Add(-2*time.Minute))
	require.NoError(t, db.Create(&model.ArtistFollow{
		ID: "af1", UserID: bob.ID, ArtistID: "ar1", ArtistName: "Radiohead", CreatedAt: now.Add(-time.Minute),
	}).Error)

	items, err := feed.Feed(ctx, alice.ID, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = follows.Create(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	items, err = feed.Feed(ctx, alice.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, model.ActivityFollowArtist, items[0].ActivityType)
	require.NotNil(t, items[0].Artist)
	assert.Equal(t, "Radiohead", *items[0].Artist)
	assert.Nil(t, items[0].Rating)

	assert.Equal(t, model.ActivityReview, items[1].ActivityType)
	assert.Equal(t, "bob", items[1].Username)
	require.NotNil(t, items[1].Rating)
	assert.Equal(t, 5, *items[1].Rating)
	require.NotNil(t, items[1].AlbumSpotifyID)
	assert.Equal(t, "spX", *items[1].AlbumSpotifyID)

	page, err := feed.Feed(ctx, alice.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, model.ActivityReview, page[0].ActivityType)

	page, err = feed.Feed(ctx, alice.ID, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, page)

	// 取消关注后历史动态一并消失
	require.NoError(t, follows.Delete(ctx, alice.ID, bob.ID))
	items, err = feed.Feed(ctx, alice.ID, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestActivityRepository_FeedTiedTimestamps(t *testing.T) {
	db := testutil.NewDB(t)
	follows := NewFollowRepository(db)
	feed := NewActivityRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	_, err := follows.Create(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	at := time.Now().UTC().Truncate(time.Second)
	want := map[string]bool{}
	for i := 0; i < 6; i++ {
		album := testutil.CreateAlbum(t, db, fmt.Sprintf("sp%d", i), "album", "artist")
		rv := testutil.CreateReview(t, db, bob.ID, album.ID, 4, at)
		want[rv.ID] = true
	}
	require.NoError(t, db.Create(&model.ArtistFollow{
		ID: "af-tied", UserID: bob.ID, ArtistID: "ar1", ArtistName: "Radiohead", CreatedAt: at,
	}).Error)
	want["af-tied"] = true

	// 同一时间戳下逐页翻阅，既不重复也不遗漏
	seen := map[string]int{}
	for offset := 0; offset < len(want); offset++ {
		page, err := feed.Feed(ctx, alice.ID, 1, offset)
		require.NoError(t, err)
		require.Len(t, page, 1)
		seen[page[0].ActivityID]++
	}
	assert.Len(t, seen, len(want))
	for id, n := range seen {
		assert.True(t, want[id], id)
		assert.Equal(t, 1, n, id)
	}

	page, err := feed.Feed(ctx, alice.ID, 1, len(want))
	require.NoError(t, err)
	assert.Empty(t, page)
}
