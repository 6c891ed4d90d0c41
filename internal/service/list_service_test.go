package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/tuneboxd/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func TestListService_PrivateVisibility(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	l, err := e.lists.Create(ctx, alice, CreateListInput{Name: "secret", IsPublic: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, l.IsPublic)

	_, err = e.lists.Get(ctx, l.ID, bob)
	assert.ErrorIs(t, err, ErrListNotFound)
	_, err = e.lists.Get(ctx, l.ID, model.Actor{})
	assert.ErrorIs(t, err, ErrListNotFound)

	d, err := e.lists.Get(ctx, l.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "secret", d.Name)
	require.NotNil(t, d.Owner)
	assert.Equal(t, "alice", d.Owner.Username)

	mine, err := e.lists.ListByUser(ctx, alice.UserID, alice, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.Total)
	theirs, err := e.lists.ListByUser(ctx, alice.UserID, bob, 20, 0)
	require.NoError(t, err)
	assert.Zero(t, theirs.Total)

	_, err = e.lists.ToggleLike(ctx, bob, l.ID)
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestListService_DefaultPublicAndOwnership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	l, err := e.lists.Create(ctx, alice, CreateListInput{Name: "  Faves  "})
	require.NoError(t, err)
	assert.True(t, l.IsPublic)
	assert.Equal(t, "Faves", l.Name)

	_, err = e.lists.Create(ctx, alice, CreateListInput{Name: "   "})
	assert.ErrorIs(t, err, ErrListNameRequired)

	name := "Mine now"
	_, err = e.lists.Update(ctx, bob, l.ID, UpdateListInput{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, e.lists.Delete(ctx, bob, l.ID), ErrForbidden)

	updated, err := e.lists.Update(ctx, alice, l.ID, UpdateListInput{IsPublic: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsPublic)

	require.NoError(t, e.lists.Delete(ctx, alice, l.ID))
	_, err = e.lists.Get(ctx, l.ID, alice)
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestListService_Items(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	l, err := e.lists.Create(ctx, alice, CreateListInput{Name: "90s"})
	require.NoError(t, err)

	first, err := e.lists.AddAlbum(ctx, alice, l.ID, AddAlbumInput{Album: album("a1")})
	require.NoError(t, err)
	second, err := e.lists.AddAlbum(ctx, alice, l.ID, AddAlbumInput{Album: album("a2")})
	require.NoError(t, err)
	assert.Equal(t, 0, first.OrderIndex)
	assert.Equal(t, 1, second.OrderIndex)

	_, err = e.lists.AddAlbum(ctx, alice, l.ID, AddAlbumInput{Album: album("a1")})
	assert.ErrorIs(t, err, ErrAlbumAlreadyInList)
	_, err = e.lists.AddAlbum(ctx, bob, l.ID, AddAlbumInput{Album: album("a3")})
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, e.lists.ReorderAlbum(ctx, alice, l.ID, second.AlbumID, -1), ErrInvalidOrderIndex)
	require.NoError(t, e.lists.ReorderAlbum(ctx, alice, l.ID, second.AlbumID, 0))
	require.NoError(t, e.lists.ReorderAlbum(ctx, alice, l.ID, first.AlbumID, 1))

	d, err := e.lists.Get(ctx, l.ID, bob)
	require.NoError(t, err)
	require.Len(t, d.Items, 2)
	assert.Equal(t, second.AlbumID, d.Items[0].AlbumID)

	require.NoError(t, e.lists.RemoveAlbum(ctx, alice, l.ID, first.AlbumID))
	assert.ErrorIs(t, e.lists.RemoveAlbum(ctx, alice, l.ID, first.AlbumID), ErrAlbumNotInList)
}

func TestListService_LikeAndCommentNotify(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	l, err := e.lists.Create(ctx, alice, CreateListInput{Name: "Shoegaze"})
	require.NoError(t, err)

	st, err := e.lists.ToggleLike(ctx, bob, l.ID)
	require.NoError(t, err)
	assert.True(t, st.Liked)
	st, err = e.lists.ToggleLike(ctx, bob, l.ID)
	require.NoError(t, err)
	assert.False(t, st.Liked)
	assert.Zero(t, st.LikeCount)

	c, err := e.lists.AddComment(ctx, bob, l.ID, "  nice picks ")
	require.NoError(t, err)
	assert.Equal(t, "nice picks", c.Content)

	inbox := e.inbox(t, alice.UserID)
	require.Len(t, inbox, 2)
	types := []model.NotificationType{inbox[0].Type, inbox[1].Type}
	assert.ElementsMatch(t, []model.NotificationType{model.NotificationListLike, model.NotificationListComment}, types)
	for _, n := range inbox {
		require.NotNil(t, n.ListID)
		assert.Equal(t, l.ID, *n.ListID)
		if n.Type == model.NotificationListComment {
			require.NotNil(t, n.CommentID)
			assert.Equal(t, c.ID, *n.CommentID)
		}
	}

	// 所有者评论自己的清单不通知
	_, err = e.lists.AddComment(ctx, alice, l.ID, "thanks")
	require.NoError(t, err)
	assert.Len(t, e.inbox(t, alice.UserID), 2)

	d, err := e.lists.Get(ctx, l.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.CommentCount)
}

func TestListService_CommentRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	carol := e.user(t, "carol")
	l, err := e.lists.Create(ctx, alice, CreateListInput{Name: "Jazz"})
	require.NoError(t, err)

	_, err = e.lists.AddComment(ctx, bob, l.ID, "   ")
	assert.ErrorIs(t, err, ErrCommentEmpty)
	_, err = e.lists.AddComment(ctx, bob, l.ID, strings.Repeat("é", 501))
	assert.ErrorIs(t, err, ErrCommentTooLong)
	_, err = e.lists.AddComment(ctx, bob, l.ID, strings.Repeat("é", 500))
	require.NoError(t, err)

	c, err := e.lists.AddComment(ctx, bob, l.ID, "first")
	require.NoError(t, err)

	_, err = e.lists.UpdateComment(ctx, carol, c.ID, "hijack")
	assert.ErrorIs(t, err, ErrForbidden)
	edited, err := e.lists.UpdateComment(ctx, bob, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Content)

	assert.ErrorIs(t, e.lists.DeleteComment(ctx, carol, c.ID), ErrForbidden)
	admin := e.user(t, "admin")
	admin.Role = model.RoleAdmin
	require.NoError(t, e.lists.DeleteComment(ctx, admin, c.ID))
	assert.ErrorIs(t, e.lists.DeleteComment(ctx, bob, c.ID), ErrCommentNotFound)

	page, err := e.lists.Comments(ctx, l.ID, model.Actor{}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}
