// Package testutil holds fixtures shared by repository, service and handler tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/pkg/database"
)

// NewDB opens a private in-memory sqlite database with every table migrated.
func NewDB(tb testing.TB) *gorm.DB {
	// 单连接，保证所有查询落在同一个内存库
	return open(tb, ":memory:", 1)
}

// NewFileDB opens a file-backed sqlite database that several connections can
// write to at once, for tests that race goroutines against the store.
func NewFileDB(tb testing.TB) *gorm.DB {
	dsn := filepath.Join(tb.TempDir(), "tuneboxd.db") + "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
	return open(tb, dsn, 4)
}

func open(tb testing.TB, dsn string, conns int) *gorm.DB {
	tb.Helper()
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(conns)
	sqlDB.SetMaxIdleConns(conns)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with a throwaway password hash.
func CreateUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()
	u := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "x",
		Role:         model.RoleUser,
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// CreateAlbum inserts an album keyed by spotifyID.
func CreateAlbum(tb testing.TB, db *gorm.DB, spotifyID, name, artist string) *model.Album {
	tb.Helper()
	a := &model.Album{ID: uuid.New().String(), SpotifyID: spotifyID, Name: name, Artist: artist}
	if err := db.Create(a).Error; err != nil {
		tb.Fatalf("create album %s: %v", spotifyID, err)
	}
	return a
}

// CreateReview inserts a review at the given time.
func CreateReview(tb testing.TB, db *gorm.DB, userID, albumID string, rating int, at time.Time) *model.Review {
	tb.Helper()
	rv := &model.Review{
		ID:        uuid.New().String(),
		UserID:    userID,
		AlbumID:   albumID,
		Rating:    rating,
		Title:     "title",
		Content:   "content",
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := db.Omit("Album", "User").Create(rv).Error; err != nil {
		tb.Fatalf("create review: %v", err)
	}
	return rv
}
