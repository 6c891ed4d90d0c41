package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/tuneboxd/internal/model"
)

type ArtistFollowRepository interface {
	Create(ctx context.Context, f *model.ArtistFollow) error
	Delete(ctx context.Context, userID, artistID string) error
	Exists(ctx context.Context, userID, artistID string) (bool, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.ArtistFollow, int64, error)
}

type artistFollowRepository struct {
	db *gorm.DB
}

func NewArtistFollowRepository(db *gorm.DB) ArtistFollowRepository {
	return &artistFollowRepository{db: db}
}

func (r *artistFollowRepository) Create(ctx context.Context, f *model.ArtistFollow) error {
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *artistFollowRepository) Delete(ctx context.Context, userID, artistID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND artist_id = ?", userID, artistID).
		Delete(&model.ArtistFollow{})
	return affected(res)
}

func (r *artistFollowRepository) Exists(ctx context.Context, userID, artistID string) (bool, error) {
	return exists[model.ArtistFollow](ctx, r.db, "user_id = ? AND artist_id = ?", userID, artistID)
}

func (r *artistFollowRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.ArtistFollow, int64, error) {
	total, err := count[model.ArtistFollow](ctx, r.db, "user_id = ?", userID)
	if err != nil {
		return nil, 0, err
	}
	var rows []model.ArtistFollow
	err = r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}
