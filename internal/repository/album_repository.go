package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/tuneboxd/internal/model"
)

type AlbumRepository interface {
	// FindOrCreate 按 spotify_id 查找，不存在则写入快照
	FindOrCreate(ctx context.Context, a *model.Album) (*model.Album, error)
	GetByID(ctx context.Context, id string) (*model.Album, error)
	GetBySpotifyID(ctx context.Context, spotifyID string) (*model.Album, error)
}

type albumRepository struct {
	db *gorm.DB
}

func NewAlbumRepository(db *gorm.DB) AlbumRepository { return &albumRepository{db: db} }

func (r *albumRepository) FindOrCreate(ctx context.Context, a *model.Album) (*model.Album, error) {
	if found, err := r.GetBySpotifyID(ctx, a.SpotifyID); err == nil {
		return found, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	// 并发创建同一专辑时以先写入者为准
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "spotify_id"}}, DoNothing: true}).
		Create(a).Error; err != nil {
		return nil, translate(err)
	}
	return r.GetBySpotifyID(ctx, a.SpotifyID)
}

func (r *albumRepository) GetByID(ctx context.Context, id string) (*model.Album, error) {
	var a model.Album
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *albumRepository) GetBySpotifyID(ctx context.Context, spotifyID string) (*model.Album, error) {
	var a model.Album
	if err := r.db.WithContext(ctx).Where("spotify_id = ?", spotifyID).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}
