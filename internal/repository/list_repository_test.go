package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/testutil"
)

func TestListRepository_ItemOrdering(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewListRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	a1 := testutil.CreateAlbum(t, db, "sp1", "One", "A")
	a2 := testutil.CreateAlbum(t, db, "sp2", "Two", "B")
	a3 := testutil.CreateAlbum(t, db, "sp3", "Three", "C")

	l := &model.List{UserID: owner.ID, Name: "favs", IsPublic: true}
	require.NoError(t, repo.Create(ctx, l))

	for _, a := range []*model.Album{a1, a2, a3} {
		require.NoError(t, repo.AddItem(ctx, &model.ListItem{ListID: l.ID, AlbumID: a.ID}))
	}
	assert.ErrorIs(t, repo.AddItem(ctx, &model.ListItem{ListID: l.ID, AlbumID: a1.ID}), ErrDuplicate)

	items, err := repo.ListItems(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{items[0].OrderIndex, items[1].OrderIndex, items[2].OrderIndex})
	require.NotNil(t, items[0].Album)
	assert.Equal(t, "One", items[0].Album.Name)

	// 移到最前；允许与其它条目同序号，按插入时间打破平局
	require.NoError(t, repo.UpdateItemOrder(ctx, l.ID, a3.ID, 0))
	items, err = repo.ListItems(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, a1.ID, items[0].AlbumID)
	assert.Equal(t, a3.ID, items[1].AlbumID)
	assert.Equal(t, a2.ID, items[2].AlbumID)

	require.NoError(t, repo.RemoveItem(ctx, l.ID, a2.ID))
	assert.ErrorIs(t, repo.RemoveItem(ctx, l.ID, a2.ID), ErrNotFound)
	assert.ErrorIs(t, repo.UpdateItemOrder(ctx, l.ID, a2.ID, 5), ErrNotFound)

	// 删除后再追加仍取 max+1，序号可以有空洞
	require.NoError(t, repo.AddItem(ctx, &model.ListItem{ListID: l.ID, AlbumID: a2.ID}))
	items, err = repo.ListItems(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, items[len(items)-1].OrderIndex)
}

func TestListRepository_ToggleLike(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewListRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	fan := testutil.CreateUser(t, db, "fan")
	l := &model.List{UserID: owner.ID, Name: "favs", IsPublic: true}
	require.NoError(t, repo.Create(ctx, l))

	liked, err := repo.ToggleLike(ctx, fan.ID, l.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	n, _ := repo.CountLikes(ctx, l.ID)
	assert.Equal(t, int64(1), n)

	liked, err = repo.ToggleLike(ctx, fan.ID, l.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	n, _ = repo.CountLikes(ctx, l.ID)
	assert.Equal(t, int64(0), n)
}

func TestListRepository_VisibilityAndCascade(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewListRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	album := testutil.CreateAlbum(t, db, "sp1", "One", "A")

	pub := &model.List{UserID: owner.ID, Name: "public", IsPublic: true}
	priv := &model.List{UserID: owner.ID, Name: "private", IsPublic: false}
	require.NoError(t, repo.Create(ctx, pub))
	require.NoError(t, repo.Create(ctx, priv))

	_, total, err := repo.ListByUser(ctx, owner.ID, false, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	_, total, err = repo.ListByUser(ctx, owner.ID, true, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	require.NoError(t, repo.AddItem(ctx, &model.ListItem{ListID: pub.ID, AlbumID: album.ID}))
	require.NoError(t, repo.CreateComment(ctx, &model.ListComment{ListID: pub.ID, UserID: owner.ID, Content: "hi"}))
	require.NoError(t, repo.Delete(ctx, pub.ID))

	n, _ := repo.CountItems(ctx, pub.ID)
	assert.Zero(t, n)
	_, total, _ = repo.ListComments(ctx, pub.ID, 10, 0)
	assert.Zero(t, total)
	assert.ErrorIs(t, repo.Delete(ctx, pub.ID), ErrNotFound)
}
