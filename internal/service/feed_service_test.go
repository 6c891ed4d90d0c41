package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/testutil"
)

func TestFeed_FollowedUsersOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	carol := e.user(t, "carol")

	_, err := e.relation.Follow(ctx, alice.UserID, bob.UserID)
	require.NoError(t, err)

	a := testutil.CreateAlbum(t, e.db, "a1", "OK Computer", "Radiohead")
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	rv := testutil.CreateReview(t, e.db, bob.UserID, a.ID, 5, base)
	testutil.CreateReview(t, e.db, carol.UserID, a.ID, 2, base.Add(time.Hour))

	page, err := e.feed.Activity(ctx, alice.UserID, 20, 0)
	require.NoError(t, err)
	require.Len(t, page.Activities, 1)
	item := page.Activities[0]
	assert.Equal(t, model.ActivityReview, item.ActivityType)
	assert.Equal(t, rv.ID, item.ActivityID)
	assert.Equal(t, "bob", item.Username)
	require.NotNil(t, item.Rating)
	assert.Equal(t, 5, *item.Rating)
	assert.False(t, page.Pagination.HasMore)
	assert.Nil(t, page.Pagination.Total)

	// 取消关注后立刻从动态流消失
	require.NoError(t, e.relation.Unfollow(ctx, alice.UserID, bob.UserID))
	page, err = e.feed.Activity(ctx, alice.UserID, 20, 0)
	require.NoError(t, err)
	assert.NotNil(t, page.Activities)
	assert.Empty(t, page.Activities)
}

func TestFeed_HasMore(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	_, err := e.relation.Follow(ctx, alice.UserID, bob.UserID)
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a1", "a2", "a3"} {
		a := testutil.CreateAlbum(t, e.db, id, id, "x")
		testutil.CreateReview(t, e.db, bob.UserID, a.ID, 4, base.Add(time.Duration(i)*time.Minute))
	}

	page, err := e.feed.Activity(ctx, alice.UserID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page.Activities, 2)
	assert.True(t, page.Pagination.HasMore)
	assert.Equal(t, "a3", *page.Activities[0].AlbumSpotifyID)

	page, err = e.feed.Activity(ctx, alice.UserID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Activities, 1)
	assert.False(t, page.Pagination.HasMore)
}

func TestFeed_IncludesArtistFollows(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	_, err := e.relation.Follow(ctx, alice.UserID, bob.UserID)
	require.NoError(t, err)
	_, err = e.relation.FollowArtist(ctx, bob.UserID, ArtistInput{ArtistID: "art1", ArtistName: "Björk"})
	require.NoError(t, err)

	page, err := e.feed.Activity(ctx, alice.UserID, 20, 0)
	require.NoError(t, err)
	require.Len(t, page.Activities, 1)
	assert.Equal(t, model.ActivityFollowArtist, page.Activities[0].ActivityType)
	assert.Nil(t, page.Activities[0].Rating)
}
