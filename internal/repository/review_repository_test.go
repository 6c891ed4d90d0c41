package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/testutil"
)

func TestReviewRepository_UniquePerAlbum(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReviewRepository(db)
	albums := NewAlbumRepository(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "alice")

	album, err := albums.FindOrCreate(ctx, &model.Album{SpotifyID: "sp1", Name: "OK Computer", Artist: "Radiohead"})
	require.NoError(t, err)
	again, err := albums.FindOrCreate(ctx, &model.Album{SpotifyID: "sp1", Name: "ignored", Artist: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, album.ID, again.ID)
	assert.Equal(t, "OK Computer", again.Name)

	rv := &model.Review{UserID: u.ID, AlbumID: album.ID, Rating: 4}
	require.NoError(t, repo.Create(ctx, rv))
	assert.ErrorIs(t, repo.Create(ctx, &model.Review{UserID: u.ID, AlbumID: album.ID, Rating: 1}), ErrDuplicate)

	got, err := repo.GetByID(ctx, rv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Album)
	assert.Equal(t, "Radiohead", got.Album.Artist)
	require.NotNil(t, got.User)
	assert.Equal(t, "alice", got.User.Username)

	n, err := repo.CountByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestReviewRepository_ToggleLikeAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "author")
	fan := testutil.CreateUser(t, db, "fan")
	album := testutil.CreateAlbum(t, db, "sp1", "A", "B")
	rv := &model.Review{UserID: author.ID, AlbumID: album.ID, Rating: 5}
	require.NoError(t, repo.Create(ctx, rv))

	liked, err := repo.ToggleLike(ctx, fan.ID, rv.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	has, _ := repo.HasLiked(ctx, fan.ID, rv.ID)
	assert.True(t, has)

	require.NoError(t, repo.Delete(ctx, rv.ID))
	n, _ := repo.CountLikes(ctx, rv.ID)
	assert.Zero(t, n)
	assert.ErrorIs(t, repo.Delete(ctx, rv.ID), ErrNotFound)
	_, err = repo.GetByID(ctx, rv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
