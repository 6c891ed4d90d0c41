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

func seedNotifications(t *testing.T, repo NotificationRepository, to, from string, n int) []*model.Notification {
	t.Helper()
	out := make([]*model.Notification, 0, n)
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < n; i++ {
		nt := &model.Notification{
			UserID:     to,
			Type:       model.NotificationFollow,
			FromUserID: from,
			Title:      "New follower",
			Message:    "x started following you",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(context.Background(), nt))
		out = append(out, nt)
	}
	return out
}

func TestNotificationRepository_ReadTransitions(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()
	bob := testutil.CreateUser(t, db, "bob")
	alice := testutil.CreateUser(t, db, "alice")

	ns := seedNotifications(t, repo, bob.ID, alice.ID, 3)

	n, err := repo.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, repo.MarkRead(ctx, ns[0].ID))
	require.NoError(t, repo.MarkRead(ctx, ns[0].ID))
	n, _ = repo.UnreadCount(ctx, bob.ID)
	assert.Equal(t, int64(2), n)

	rows, total, err := repo.List(ctx, bob.ID, true, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, ns[2].ID, rows[0].ID, "newest first")

	changed, err := repo.MarkAllRead(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)
	n, _ = repo.UnreadCount(ctx, bob.ID)
	assert.Zero(t, n)

	_, total, err = repo.List(ctx, bob.ID, false, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestNotificationRepository_Delete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()
	bob := testutil.CreateUser(t, db, "bob")
	alice := testutil.CreateUser(t, db, "alice")

	ns := seedNotifications(t, repo, bob.ID, alice.ID, 3)
	seedNotifications(t, repo, alice.ID, bob.ID, 1)

	require.NoError(t, repo.Delete(ctx, ns[1].ID))
	assert.ErrorIs(t, repo.Delete(ctx, ns[1].ID), ErrNotFound)

	removed, err := repo.DeleteAll(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, total, _ := repo.List(ctx, alice.ID, false, 10, 0)
	assert.Equal(t, int64(1), total, "other users untouched")
}

func TestNotificationRepository_DeleteOlderThan(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()
	bob := testutil.CreateUser(t, db, "bob")
	alice := testutil.CreateUser(t, db, "alice")

	old := &model.Notification{UserID: bob.ID, Type: model.NotificationFollow, FromUserID: alice.ID,
		Title: "t", Message: "m", CreatedAt: time.Now().UTC().AddDate(0, 0, -100)}
	require.NoError(t, repo.Create(ctx, old))
	seedNotifications(t, repo, bob.ID, alice.ID, 1)

	removed, err := repo.DeleteOlderThan(ctx, time.Now().UTC().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	_, err = repo.GetByID(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
