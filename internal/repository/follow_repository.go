package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/tuneboxd/internal/model"
)

type FollowRepository interface {
	// Create 重复关注返回 ErrDuplicate
	Create(ctx context.Context, followerID, followingID string) (*model.Follow, error)
	// Delete 不存在的关系返回 ErrNotFound
	Delete(ctx context.Context, followerID, followingID string) error
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	ListFollowers(ctx context.Context, userID string, limit, offset int) ([]model.FollowEntry, int64, error)
	ListFollowing(ctx context.Context, userID string, limit, offset int) ([]model.FollowEntry, int64, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	// FilterFollowed 返回 candidates 中被 followerID 关注的子集
	FilterFollowed(ctx context.Context, followerID string, candidates []string) (map[string]bool, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followingID string) (*model.Follow, error) {
	f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FollowingID: followingID}
	// 不再静默忽略冲突：由唯一索引 idx_follow_pair 拒绝重复边
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, translate(err)
	}
	return f, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	return affected(res)
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	return exists[model.Follow](ctx, r.db, "follower_id = ? AND following_id = ?", followerID, followingID)
}

func (r *followRepository) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]model.FollowEntry, int64, error) {
	return r.list(ctx, "follows.following_id = ?", "follows.follower_id", userID, limit, offset)
}

func (r *followRepository) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]model.FollowEntry, int64, error) {
	return r.list(ctx, "follows.follower_id = ?", "follows.following_id", userID, limit, offset)
}

// list joins the other end of each edge onto users.
func (r *followRepository) list(ctx context.Context, where, joinCol, userID string, limit, offset int) ([]model.FollowEntry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Follow{}).Where(where, userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.FollowEntry
	err := r.db.WithContext(ctx).
		Table("follows").
		Select("users.id, users.username, users.display_name, users.avatar_url, users.bio, follows.created_at AS followed_at").
		Joins("JOIN users ON users.id = "+joinCol).
		Where(where, userID).
		Order("follows.created_at DESC").Order("follows.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return count[model.Follow](ctx, r.db, "following_id = ?", userID)
}

func (r *followRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return count[model.Follow](ctx, r.db, "follower_id = ?", userID)
}

func (r *followRepository) FilterFollowed(ctx context.Context, followerID string, candidates []string) (map[string]bool, error) {
	out := make(map[string]bool, len(candidates))
	if followerID == "" || len(candidates) == 0 {
		return out, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id IN ?", followerID, candidates).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
