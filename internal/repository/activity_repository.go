package repository

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/d60-Lab/tuneboxd/internal/model"
)

// ActivityRepository 基于关注图拉取动态，每次调用实时计算
type ActivityRepository interface {
	Feed(ctx context.Context, viewerID string, limit, offset int) ([]model.ActivityItem, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository { return &activityRepository{db: db} }

// Feed merges the two newest-first streams and cuts [offset, offset+limit).
// Each source only needs its own first offset+limit rows.
func (r *activityRepository) Feed(ctx context.Context, viewerID string, limit, offset int) ([]model.ActivityItem, error) {
	window := offset + limit
	followed := func() *gorm.DB {
		return r.db.Model(&model.Follow{}).Select("following_id").Where("follower_id = ?", viewerID)
	}

	var reviews []model.ActivityItem
	err := r.db.WithContext(ctx).
		Table("reviews").
		Select(`'review' AS activity_type,
			reviews.id AS activity_id,
			users.id AS user_id,
			users.username AS username,
			reviews.rating AS rating,
			reviews.title AS review_title,
			reviews.content AS review_content,
			albums.name AS album_name,
			albums.artist AS artist,
			albums.image_url AS image_url,
			albums.spotify_id AS album_spotify_id,
			reviews.created_at AS created_at`).
		Joins("JOIN users ON users.id = reviews.user_id").
		Joins("JOIN albums ON albums.id = reviews.album_id").
		Where("reviews.user_id IN (?)", followed()).
		Order("reviews.created_at DESC").Order("reviews.id DESC").
		Limit(window).
		Scan(&reviews).Error
	if err != nil {
		return nil, err
	}

	var artists []model.ActivityItem
	err = r.db.WithContext(ctx).
		Table("artist_follows").
		Select(`'follow_artist' AS activity_type,
			artist_follows.id AS activity_id,
			users.id AS user_id,
			users.username AS username,
			artist_follows.artist_name AS album_name,
			artist_follows.artist_name AS artist,
			artist_follows.artist_image AS image_url,
			artist_follows.artist_id AS album_spotify_id,
			artist_follows.created_at AS created_at`).
		Joins("JOIN users ON users.id = artist_follows.user_id").
		Where("artist_follows.user_id IN (?)", followed()).
		Order("artist_follows.created_at DESC").Order("artist_follows.id DESC").
		Limit(window).
		Scan(&artists).Error
	if err != nil {
		return nil, err
	}

	merged := append(reviews, artists...)
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].ActivityID > merged[j].ActivityID
		}
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	if offset >= len(merged) {
		return []model.ActivityItem{}, nil
	}
	end := offset + limit
	if end > len(merged) {
		end = len(merged)
	}
	return merged[offset:end], nil
}
