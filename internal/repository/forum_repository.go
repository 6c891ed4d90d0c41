package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/tuneboxd/internal/model"
)

// ThreadFilter 为空字段不参与过滤
type ThreadFilter struct {
	Category string
	Language string
	UserID   string
}

// Facet 可聚合的主题字段
type Facet string

const (
	FacetCategory Facet = "category"
	FacetLanguage Facet = "language"
)

type ForumRepository interface {
	CreateThread(ctx context.Context, t *model.ForumThread) error
	GetThread(ctx context.Context, id string) (*model.ForumThread, error)
	UpdateThread(ctx context.Context, id string, fields map[string]any) error
	DeleteThread(ctx context.Context, id string) error
	// ListThreads 置顶优先，其次按创建时间倒序
	ListThreads(ctx context.Context, f ThreadFilter, limit, offset int) ([]model.ForumThread, int64, error)
	// Facets 按分类或语言统计主题数，数量多的在前
	Facets(ctx context.Context, facet Facet) ([]model.ForumFacet, error)

	CreateReply(ctx context.Context, rp *model.ForumReply) error
	GetReply(ctx context.Context, id string) (*model.ForumReply, error)
	UpdateReply(ctx context.Context, id, content string) error
	DeleteReply(ctx context.Context, id string) error
	ListReplies(ctx context.Context, threadID string, limit, offset int) ([]model.ForumReply, int64, error)
	CountReplies(ctx context.Context, threadID string) (int64, error)

	ToggleLike(ctx context.Context, userID string, target model.LikeTarget, targetID string) (bool, error)
	CountLikes(ctx context.Context, target model.LikeTarget, targetID string) (int64, error)
	HasLiked(ctx context.Context, userID string, target model.LikeTarget, targetID string) (bool, error)
}

type forumRepository struct {
	db *gorm.DB
}

func NewForumRepository(db *gorm.DB) ForumRepository { return &forumRepository{db: db} }

func (r *forumRepository) CreateThread(ctx context.Context, t *model.ForumThread) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Omit("User").Create(t).Error)
}

func (r *forumRepository) GetThread(ctx context.Context, id string) (*model.ForumThread, error) {
	var t model.ForumThread
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *forumRepository) UpdateThread(ctx context.Context, id string, fields map[string]any) error {
	return affected(r.db.WithContext(ctx).Model(&model.ForumThread{}).Where("id = ?", id).Updates(fields))
}

// DeleteThread removes the thread, its replies and every like attached to either.
func (r *forumRepository) DeleteThread(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		replyIDs := tx.Model(&model.ForumReply{}).Select("id").Where("thread_id = ?", id)
		if err := tx.Where("target_type = ? AND target_id IN (?)", model.LikeTargetReply, replyIDs).
			Delete(&model.ForumLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", model.LikeTargetThread, id).
			Delete(&model.ForumLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("thread_id = ?", id).Delete(&model.ForumReply{}).Error; err != nil {
			return err
		}
		return affected(tx.Where("id = ?", id).Delete(&model.ForumThread{}))
	})
}

func (r *forumRepository) ListThreads(ctx context.Context, f ThreadFilter, limit, offset int) ([]model.ForumThread, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ForumThread{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.ForumThread
	err := q.Preload("User").
		Order("is_pinned DESC").Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *forumRepository) Facets(ctx context.Context, facet Facet) ([]model.ForumFacet, error) {
	if facet != FacetCategory && facet != FacetLanguage {
		return nil, fmt.Errorf("unknown forum facet %q", facet)
	}
	col := string(facet)
	var rows []model.ForumFacet
	err := r.db.WithContext(ctx).Model(&model.ForumThread{}).
		Select(col + " AS value, COUNT(*) AS thread_count").
		Where(col + " <> ''").
		Group(col).
		Order("thread_count DESC").Order("value ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *forumRepository) CreateReply(ctx context.Context, rp *model.ForumReply) error {
	if rp.ID == "" {
		rp.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(rp).Error; err != nil {
			return err
		}
		// 回复会刷新主题的活跃时间
		return tx.Model(&model.ForumThread{}).Where("id = ?", rp.ThreadID).Update("updated_at", tx.NowFunc()).Error
	})
	return translate(err)
}

func (r *forumRepository) GetReply(ctx context.Context, id string) (*model.ForumReply, error) {
	var rp model.ForumReply
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&rp).Error; err != nil {
		return nil, translate(err)
	}
	return &rp, nil
}

func (r *forumRepository) UpdateReply(ctx context.Context, id, content string) error {
	return affected(r.db.WithContext(ctx).Model(&model.ForumReply{}).Where("id = ?", id).Update("content", content))
}

func (r *forumRepository) DeleteReply(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_type = ? AND target_id = ?", model.LikeTargetReply, id).
			Delete(&model.ForumLike{}).Error; err != nil {
			return err
		}
		return affected(tx.Where("id = ?", id).Delete(&model.ForumReply{}))
	})
}

func (r *forumRepository) ListReplies(ctx context.Context, threadID string, limit, offset int) ([]model.ForumReply, int64, error) {
	total, err := r.CountReplies(ctx, threadID)
	if err != nil {
		return nil, 0, err
	}
	var rows []model.ForumReply
	err = r.db.WithContext(ctx).
		Preload("User").
		Where("thread_id = ?", threadID).
		Order("created_at ASC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *forumRepository) CountReplies(ctx context.Context, threadID string) (int64, error) {
	return count[model.ForumReply](ctx, r.db, "thread_id = ?", threadID)
}

func (r *forumRepository) ToggleLike(ctx context.Context, userID string, target model.LikeTarget, targetID string) (bool, error) {
	row := &model.ForumLike{ID: uuid.New().String(), UserID: userID, TargetType: target, TargetID: targetID}
	return toggle(ctx, r.db, row, "user_id = ? AND target_type = ? AND target_id = ?", userID, target, targetID)
}

func (r *forumRepository) CountLikes(ctx context.Context, target model.LikeTarget, targetID string) (int64, error) {
	return count[model.ForumLike](ctx, r.db, "target_type = ? AND target_id = ?", target, targetID)
}

func (r *forumRepository) HasLiked(ctx context.Context, userID string, target model.LikeTarget, targetID string) (bool, error) {
	return exists[model.ForumLike](ctx, r.db, "user_id = ? AND target_type = ? AND target_id = ?", userID, target, targetID)
}
