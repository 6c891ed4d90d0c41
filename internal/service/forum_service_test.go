package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/tuneboxd/internal/authz"
	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
)

func TestForumService_CreateThreadDefaults(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")

	th, err := e.forum.CreateThread(ctx, alice, ThreadInput{Title: " Hello ", Content: "first post"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", th.Title)
	assert.Equal(t, "general", th.Category)
	assert.Equal(t, "es", th.Language)

	_, err = e.forum.CreateThread(ctx, alice, ThreadInput{Title: strings.Repeat("x", 201), Content: "c"})
	assert.ErrorIs(t, err, ErrThreadTitle)
	_, err = e.forum.CreateThread(ctx, alice, ThreadInput{Title: "t", Content: " "})
	assert.ErrorIs(t, err, ErrThreadContent)

	_, err = e.forum.CreateThread(ctx, alice, ThreadInput{Title: "Jazz", Content: "c", Category: "jazz", Language: "en"})
	require.NoError(t, err)

	page, err := e.forum.ListThreads(ctx, repository.ThreadFilter{Category: "jazz"}, 20, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Jazz", page.Items[0].Title)
}

func TestForumService_ReplyNotifiesAuthor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	th, err := e.forum.CreateThread(ctx, alice, ThreadInput{Title: "Best 2025 albums", Content: "go"})
	require.NoError(t, err)

	rp, err := e.forum.Reply(ctx, bob, th.ID, "Blonde, obviously")
	require.NoError(t, err)

	inbox := e.inbox(t, alice.UserID)
	require.Len(t, inbox, 1)
	n := inbox[0]
	assert.Equal(t, model.NotificationThreadComment, n.Type)
	assert.Equal(t, "bob replied to your thread 'Best 2025 albums'", n.Message)
	require.NotNil(t, n.ThreadID)
	assert.Equal(t, th.ID, *n.ThreadID)
	require.NotNil(t, n.CommentID)
	assert.Equal(t, rp.ID, *n.CommentID)

	_, err = e.forum.Reply(ctx, alice, th.ID, "own reply")
	require.NoError(t, err)
	assert.Len(t, e.inbox(t, alice.UserID), 1)

	_, err = e.forum.Reply(ctx, bob, th.ID, strings.Repeat("a", 2001))
	assert.ErrorIs(t, err, ErrReplyTooLong)
	_, err = e.forum.Reply(ctx, bob, "missing", "hi")
	assert.ErrorIs(t, err, ErrThreadNotFound)

	d, err := e.forum.GetThread(ctx, th.ID, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.ReplyCount)

	replies, err := e.forum.Replies(ctx, th.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, replies.Items, 2)
	assert.Equal(t, rp.ID, replies.Items[0].ID)
}

func TestForumService_Moderation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	mod := e.user(t, "mod")
	mod.Role = model.RoleModerator
	th, err := e.forum.CreateThread(ctx, alice, ThreadInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = e.forum.SetLocked(ctx, alice, th.ID, true)
	assert.ErrorIs(t, err, ErrForbidden)

	locked, err := e.forum.SetLocked(ctx, mod, th.ID, true)
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)

	_, err = e.forum.Reply(ctx, bob, th.ID, "too late")
	assert.ErrorIs(t, err, ErrThreadLocked)

	pinned, err := e.forum.SetPinned(ctx, mod, th.ID, true)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)

	title := "renamed"
	_, err = e.forum.UpdateThread(ctx, bob, th.ID, UpdateThreadInput{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)
	renamed, err := e.forum.UpdateThread(ctx, alice, th.ID, UpdateThreadInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", renamed.Title)

	assert.ErrorIs(t, e.forum.DeleteThread(ctx, bob, th.ID), ErrForbidden)
	require.NoError(t, e.forum.DeleteThread(ctx, mod, th.ID))
	_, err = e.forum.GetThread(ctx, th.ID, "")
	assert.ErrorIs(t, err, ErrThreadNotFound)
}

func TestForumService_RepliesEditDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	th, err := e.forum.CreateThread(ctx, alice, ThreadInput{Title: "t", Content: "c"})
	require.NoError(t, err)
	rp, err := e.forum.Reply(ctx, bob, th.ID, "hi")
	require.NoError(t, err)

	_, err = e.forum.UpdateReply(ctx, alice, rp.ID, "nope")
	assert.ErrorIs(t, err, ErrForbidden)
	edited, err := e.forum.UpdateReply(ctx, bob, rp.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", edited.Content)

	assert.ErrorIs(t, e.forum.DeleteReply(ctx, alice, rp.ID), ErrForbidden)
	require.NoError(t, e.forum.DeleteReply(ctx, bob, rp.ID))
	assert.ErrorIs(t, e.forum.DeleteReply(ctx, bob, rp.ID), ErrReplyNotFound)
}

func TestForumService_ToggleLike(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	th, err := e.forum.CreateThread(ctx, alice, ThreadInput{Title: "t", Content: "c"})
	require.NoError(t, err)
	rp, err := e.forum.Reply(ctx, alice, th.ID, "r")
	require.NoError(t, err)

	st, err := e.forum.ToggleLike(ctx, bob, model.LikeTargetThread, th.ID)
	require.NoError(t, err)
	assert.True(t, st.Liked)
	assert.Equal(t, int64(1), st.LikeCount)

	st, err = e.forum.ToggleLike(ctx, bob, model.LikeTargetThread, th.ID)
	require.NoError(t, err)
	assert.False(t, st.Liked)
	assert.Zero(t, st.LikeCount)

	st, err = e.forum.ToggleLike(ctx, bob, model.LikeTargetReply, rp.ID)
	require.NoError(t, err)
	assert.True(t, st.Liked)

	_, err = e.forum.ToggleLike(ctx, bob, model.LikeTarget("post"), th.ID)
	assert.ErrorIs(t, err, ErrInvalidLikeType)
	_, err = e.forum.ToggleLike(ctx, bob, model.LikeTargetReply, "missing")
	assert.ErrorIs(t, err, ErrReplyNotFound)
}

// 统计总是失败的论坛仓储
type facetlessForum struct{ repository.ForumRepository }

func (facetlessForum) Facets(context.Context, repository.Facet) ([]model.ForumFacet, error) {
	return nil, errors.New("facet query failed")
}

func TestForumService_CategoriesAndLanguages(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	for _, in := range []ThreadInput{
		{Title: "a", Content: "c", Category: "jazz", Language: "ja"},
		{Title: "b", Content: "c", Category: "jazz", Language: "en"},
		{Title: "c", Content: "c"},
	} {
		_, err := e.forum.CreateThread(ctx, alice, in)
		require.NoError(t, err)
	}

	cats, err := e.forum.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 6)
	assert.Equal(t, CategoryCount{Category: "jazz", ThreadCount: 2}, cats[0])
	assert.Equal(t, CategoryCount{Category: "general", ThreadCount: 1}, cats[1])
	assert.Equal(t, CategoryCount{Category: "música"}, cats[2])

	langs := e.forum.Languages(ctx)
	require.Len(t, langs, 7)
	byCode := map[string]LanguageCount{}
	for _, l := range langs {
		byCode[l.Code] = l
	}
	assert.Equal(t, LanguageCount{Code: "ja", Name: "ja", ThreadCount: 1}, byCode["ja"])
	assert.Equal(t, LanguageCount{Code: "en", Name: "English", ThreadCount: 1}, byCode["en"])
	assert.Equal(t, LanguageCount{Code: "es", Name: "Español", ThreadCount: 1}, byCode["es"])
	assert.Zero(t, byCode["pt"].ThreadCount)

	enforcer, err := authz.NewEnforcer()
	require.NoError(t, err)
	broken := NewForumService(facetlessForum{repository.NewForumRepository(e.db)}, enforcer, e.notify)
	assert.Equal(t, defaultLanguages, broken.Languages(ctx))
	_, err = broken.Categories(ctx)
	assert.Error(t, err)
}
