package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/testutil"
)

func TestLibraryRepository_Watchlist(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLibraryRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	a1 := testutil.CreateAlbum(t, db, "sp1", "One", "X")
	a2 := testutil.CreateAlbum(t, db, "sp2", "Two", "X")

	require.NoError(t, repo.AddToWatchlist(ctx, &model.WatchlistEntry{UserID: alice.ID, AlbumID: a1.ID}))
	require.NoError(t, repo.AddToWatchlist(ctx, &model.WatchlistEntry{UserID: alice.ID, AlbumID: a2.ID}))
	require.NoError(t, repo.AddToWatchlist(ctx, &model.WatchlistEntry{UserID: bob.ID, AlbumID: a1.ID}))
	err := repo.AddToWatchlist(ctx, &model.WatchlistEntry{UserID: alice.ID, AlbumID: a1.ID})
	assert.ErrorIs(t, err, ErrDuplicate)

	rows, total, err := repo.Watchlist(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Album)

	in, err := repo.InWatchlist(ctx, alice.ID, a2.ID)
	require.NoError(t, err)
	assert.True(t, in)

	// 只删自己的
	require.NoError(t, repo.RemoveFromWatchlist(ctx, alice.ID, a1.ID))
	assert.ErrorIs(t, repo.RemoveFromWatchlist(ctx, alice.ID, a1.ID), ErrNotFound)
	in, err = repo.InWatchlist(ctx, bob.ID, a1.ID)
	require.NoError(t, err)
	assert.True(t, in)
}

func TestLibraryRepository_History(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLibraryRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	a1 := testutil.CreateAlbum(t, db, "sp1", "One", "X")
	a2 := testutil.CreateAlbum(t, db, "sp2", "Two", "X")

	day := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	listen := func(userID, albumID string, at time.Time) *model.ListeningEntry {
		return &model.ListeningEntry{UserID: userID, AlbumID: albumID, ListenedAt: at, ListenedOn: at.Format(time.DateOnly)}
	}
	first := listen(alice.ID, a1.ID, day)
	require.NoError(t, repo.AddListen(ctx, first))
	require.NoError(t, repo.AddListen(ctx, listen(alice.ID, a1.ID, day.AddDate(0, 0, 1))))
	require.NoError(t, repo.AddListen(ctx, listen(alice.ID, a2.ID, day.Add(time.Hour))))
	require.NoError(t, repo.AddListen(ctx, listen(bob.ID, a1.ID, day)))

	// 同一天同一专辑
	err := repo.AddListen(ctx, listen(alice.ID, a1.ID, day.Add(5*time.Hour)))
	assert.ErrorIs(t, err, ErrDuplicate)

	rows, total, err := repo.History(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-05-02", rows[0].ListenedOn)
	assert.Equal(t, a2.ID, rows[1].AlbumID)
	require.NotNil(t, rows[1].Album)

	assert.ErrorIs(t, repo.RemoveListen(ctx, bob.ID, first.ID), ErrNotFound)
	require.NoError(t, repo.RemoveListen(ctx, alice.ID, first.ID))
	require.NoError(t, repo.RemoveAlbumListens(ctx, alice.ID, a1.ID))
	assert.ErrorIs(t, repo.RemoveAlbumListens(ctx, alice.ID, a1.ID), ErrNotFound)

	_, total, err = repo.History(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	_, total, err = repo.History(ctx, bob.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestLibraryRepository_Favorites(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLibraryRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	fav := func(userID, trackID string) *model.TrackFavorite {
		return &model.TrackFavorite{UserID: userID, TrackID: trackID, TrackName: "Song " + trackID, ArtistName: "X"}
	}
	require.NoError(t, repo.AddFavorite(ctx, fav(alice.ID, "t1")))
	require.NoError(t, repo.AddFavorite(ctx, fav(alice.ID, "t2")))
	require.NoError(t, repo.AddFavorite(ctx, fav(bob.ID, "t1")))
	assert.ErrorIs(t, repo.AddFavorite(ctx, fav(alice.ID, "t1")), ErrDuplicate)

	n, err := repo.CountFavorites(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rows, total, err := repo.Favorites(ctx, alice.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 1)

	require.NoError(t, repo.RemoveFavorite(ctx, alice.ID, "t1"))
	assert.ErrorIs(t, repo.RemoveFavorite(ctx, alice.ID, "t1"), ErrNotFound)
	ok, err := repo.IsFavorite(ctx, alice.ID, "t1")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = repo.IsFavorite(ctx, bob.ID, "t1")
	require.NoError(t, err)
	assert.True(t, ok)
}
