package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/tuneboxd/internal/model"
)

type ReviewRepository interface {
	// Create 同一用户对同一专辑重复评价返回 ErrDuplicate
	Create(ctx context.Context, rv *model.Review) error
	GetByID(ctx context.Context, id string) (*model.Review, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Review, int64, error)
	ListByAlbum(ctx context.Context, albumID string, limit, offset int) ([]model.Review, int64, error)
	ListRecent(ctx context.Context, limit, offset int) ([]model.Review, int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)

	ToggleLike(ctx context.Context, userID, reviewID string) (bool, error)
	CountLikes(ctx context.Context, reviewID string) (int64, error)
	HasLiked(ctx context.Context, userID, reviewID string) (bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository { return &reviewRepository{db: db} }

func (r *reviewRepository) Create(ctx context.Context, rv *model.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Omit("Album", "User").Create(rv).Error)
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).Preload("Album").Preload("User").Where("id = ?", id).First(&rv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rv, nil
}

func (r *reviewRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return affected(r.db.WithContext(ctx).Model(&model.Review{}).Where("id = ?", id).Updates(fields))
}

// Delete removes the review together with its likes.
func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&model.ReviewLike{}).Error; err != nil {
			return err
		}
		return affected(tx.Where("id = ?", id).Delete(&model.Review{}))
	})
}

func (r *reviewRepository) page(ctx context.Context, where string, args []any, limit, offset int) ([]model.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Review{})
	if where != "" {
		q = q.Where(where, args...)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.Review
	err := q.Preload("Album").Preload("User").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Review, int64, error) {
	return r.page(ctx, "user_id = ?", []any{userID}, limit, offset)
}

func (r *reviewRepository) ListByAlbum(ctx context.Context, albumID string, limit, offset int) ([]model.Review, int64, error) {
	return r.page(ctx, "album_id = ?", []any{albumID}, limit, offset)
}

func (r *reviewRepository) ListRecent(ctx context.Context, limit, offset int) ([]model.Review, int64, error) {
	return r.page(ctx, "", nil, limit, offset)
}

func (r *reviewRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	return count[model.Review](ctx, r.db, "user_id = ?", userID)
}

func (r *reviewRepository) ToggleLike(ctx context.Context, userID, reviewID string) (bool, error) {
	row := &model.ReviewLike{ID: uuid.New().String(), UserID: userID, ReviewID: reviewID}
	return toggle(ctx, r.db, row, "user_id = ? AND review_id = ?", userID, reviewID)
}

func (r *reviewRepository) CountLikes(ctx context.Context, reviewID string) (int64, error) {
	return count[model.ReviewLike](ctx, r.db, "review_id = ?", reviewID)
}

func (r *reviewRepository) HasLiked(ctx context.Context, userID, reviewID string) (bool, error) {
	return exists[model.ReviewLike](ctx, r.db, "user_id = ? AND review_id = ?", userID, reviewID)
}
