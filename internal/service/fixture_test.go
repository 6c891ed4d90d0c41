package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/tuneboxd/internal/authz"
	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
	"github.com/d60-Lab/tuneboxd/internal/testutil"
	"github.com/d60-Lab/tuneboxd/pkg/cache"
)

// env 一套完整接线的服务，跑在内存 sqlite 上
type env struct {
	db            *gorm.DB
	users         repository.UserRepository
	notifications repository.NotificationRepository
	directory     *UserDirectory

	notify   NotificationService
	relation RelationshipService
	reviews  ReviewService
	lists    ListService
	forum    ForumService
	feed     FeedService
	profiles UserService
	library  LibraryService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	enforcer, err := authz.NewEnforcer()
	require.NoError(t, err)
	return newEnvWith(t, db, repository.NewNotificationRepository(db), enforcer)
}

func newEnvWith(t *testing.T, db *gorm.DB, notifications repository.NotificationRepository, az authz.Authorizer) *env {
	t.Helper()
	users := repository.NewUserRepository(db)
	follows := repository.NewFollowRepository(db)
	reviews := repository.NewReviewRepository(db)
	albums := repository.NewAlbumRepository(db)
	stats := cache.NewLRU[string, model.ProfileStats](cache.Options{Namespace: "stats", Size: 128})
	directory := NewUserDirectory(users, cache.NewLRU[string, model.UserSummary](cache.Options{Namespace: "users", Size: 128}))
	notify := NewNotificationService(notifications, directory)

	return &env{
		db:            db,
		users:         users,
		notifications: notifications,
		directory:     directory,
		notify:        notify,
		relation:      NewRelationshipService(follows, repository.NewArtistFollowRepository(db), users, notify, stats),
		reviews:       NewReviewService(reviews, albums, az, notify, stats),
		lists:         NewListService(repository.NewListRepository(db), albums, az, notify, directory),
		forum:         NewForumService(repository.NewForumRepository(db), az, notify),
		feed:          NewFeedService(repository.NewActivityRepository(db)),
		profiles:      NewUserService(users, follows, reviews, directory, stats),
		library:       NewLibraryService(repository.NewLibraryRepository(db), albums, users),
	}
}

func (e *env) user(t *testing.T, name string) model.Actor {
	t.Helper()
	u := testutil.CreateUser(t, e.db, name)
	return model.Actor{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func (e *env) inbox(t *testing.T, userID string) []model.Notification {
	t.Helper()
	rows, _, err := e.notifications.List(context.Background(), userID, false, 100, 0)
	require.NoError(t, err)
	return rows
}

func album(id string) AlbumInput {
	return AlbumInput{SpotifyID: id, Name: "Album " + id, Artist: "Artist"}
}

// brokenNotifications 写入总是失败
type brokenNotifications struct {
	repository.NotificationRepository
}

func (brokenNotifications) Create(context.Context, *model.Notification) error {
	return errors.New("notifications table unavailable")
}
