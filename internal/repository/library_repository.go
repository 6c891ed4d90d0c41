package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/tuneboxd/internal/model"
)

// LibraryRepository 用户私有的收藏类数据：待听清单、收听历史、单曲收藏
type LibraryRepository interface {
	AddToWatchlist(ctx context.Context, e *model.WatchlistEntry) error
	RemoveFromWatchlist(ctx context.Context, userID, albumID string) error
	InWatchlist(ctx context.Context, userID, albumID string) (bool, error)
	Watchlist(ctx context.Context, userID string, limit, offset int) ([]model.WatchlistEntry, int64, error)

	// AddListen 同一专辑同一天重复记录时返回 ErrDuplicate
	AddListen(ctx context.Context, e *model.ListeningEntry) error
	RemoveListen(ctx context.Context, userID, entryID string) error
	// RemoveAlbumListens 删除该专辑的全部收听记录
	RemoveAlbumListens(ctx context.Context, userID, albumID string) error
	History(ctx context.Context, userID string, limit, offset int) ([]model.ListeningEntry, int64, error)

	AddFavorite(ctx context.Context, f *model.TrackFavorite) error
	RemoveFavorite(ctx context.Context, userID, trackID string) error
	IsFavorite(ctx context.Context, userID, trackID string) (bool, error)
	Favorites(ctx context.Context, userID string, limit, offset int) ([]model.TrackFavorite, int64, error)
	CountFavorites(ctx context.Context, trackID string) (int64, error)
}

type libraryRepository struct {
	db *gorm.DB
}

func NewLibraryRepository(db *gorm.DB) LibraryRepository { return &libraryRepository{db: db} }

func (r *libraryRepository) AddToWatchlist(ctx context.Context, e *model.WatchlistEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Omit("Album").Create(e).Error)
}

func (r *libraryRepository) RemoveFromWatchlist(ctx context.Context, userID, albumID string) error {
	return affected(r.db.WithContext(ctx).
		Where("user_id = ? AND album_id = ?", userID, albumID).
		Delete(&model.WatchlistEntry{}))
}

func (r *libraryRepository) InWatchlist(ctx context.Context, userID, albumID string) (bool, error) {
	return exists[model.WatchlistEntry](ctx, r.db, "user_id = ? AND album_id = ?", userID, albumID)
}

func (r *libraryRepository) Watchlist(ctx context.Context, userID string, limit, offset int) ([]model.WatchlistEntry, int64, error) {
	total, err := count[model.WatchlistEntry](ctx, r.db, "user_id = ?", userID)
	if err != nil {
		return nil, 0, err
	}
	var rows []model.WatchlistEntry
	err = r.db.WithContext(ctx).Preload("Album").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *libraryRepository) AddListen(ctx context.Context, e *model.ListeningEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Omit("Album").Create(e).Error)
}

func (r *libraryRepository) RemoveListen(ctx context.Context, userID, entryID string) error {
	return affected(r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, entryID).
		Delete(&model.ListeningEntry{}))
}

func (r *libraryRepository) RemoveAlbumListens(ctx context.Context, userID, albumID string) error {
	return affected(r.db.WithContext(ctx).
		Where("user_id = ? AND album_id = ?", userID, albumID).
		Delete(&model.ListeningEntry{}))
}

func (r *libraryRepository) History(ctx context.Context, userID string, limit, offset int) ([]model.ListeningEntry, int64, error) {
	total, err := count[model.ListeningEntry](ctx, r.db, "user_id = ?", userID)
	if err != nil {
		return nil, 0, err
	}
	var rows []model.ListeningEntry
	err = r.db.WithContext(ctx).Preload("Album").
		Where("user_id = ?", userID).
		Order("listened_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *libraryRepository) AddFavorite(ctx context.Context, f *model.TrackFavorite) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *libraryRepository) RemoveFavorite(ctx context.Context, userID, trackID string) error {
	return affected(r.db.WithContext(ctx).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		Delete(&model.TrackFavorite{}))
}

func (r *libraryRepository) IsFavorite(ctx context.Context, userID, trackID string) (bool, error) {
	return exists[model.TrackFavorite](ctx, r.db, "user_id = ? AND track_id = ?", userID, trackID)
}

func (r *libraryRepository) Favorites(ctx context.Context, userID string, limit, offset int) ([]model.TrackFavorite, int64, error) {
	total, err := count[model.TrackFavorite](ctx, r.db, "user_id = ?", userID)
	if err != nil {
		return nil, 0, err
	}
	var rows []model.TrackFavorite
	err = r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *libraryRepository) CountFavorites(ctx context.Context, trackID string) (int64, error) {
	return count[model.TrackFavorite](ctx, r.db, "track_id = ?", trackID)
}
