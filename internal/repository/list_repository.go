package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/tuneboxd/internal/model"
)

type ListRepository interface {
	Create(ctx context.Context, l *model.List) error
	GetByID(ctx context.Context, id string) (*model.List, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	// Delete 级联删除条目、点赞与评论
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, includePrivate bool, limit, offset int) ([]model.List, int64, error)
	ListPublic(ctx context.Context, limit, offset int) ([]model.List, int64, error)

	// AddItem 追加到末尾：order_index = max+1
	AddItem(ctx context.Context, item *model.ListItem) error
	RemoveItem(ctx context.Context, listID, albumID string) error
	UpdateItemOrder(ctx context.Context, listID, albumID string, orderIndex int) error
	ListItems(ctx context.Context, listID string) ([]model.ListItem, error)
	CountItems(ctx context.Context, listID string) (int64, error)

	ToggleLike(ctx context.Context, userID, listID string) (bool, error)
	CountLikes(ctx context.Context, listID string) (int64, error)
	HasLiked(ctx context.Context, userID, listID string) (bool, error)

	CreateComment(ctx context.Context, c *model.ListComment) error
	GetComment(ctx context.Context, id string) (*model.ListComment, error)
	UpdateComment(ctx context.Context, id, content string) error
	DeleteComment(ctx context.Context, id string) error
	ListComments(ctx context.Context, listID string, limit, offset int) ([]model.ListComment, int64, error)
	CountComments(ctx context.Context, listID string) (int64, error)
}

type listRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) ListRepository { return &listRepository{db: db} }

func (r *listRepository) Create(ctx context.Context, l *model.List) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(l).Error)
}

func (r *listRepository) GetByID(ctx context.Context, id string) (*model.List, error) {
	var l model.List
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (r *listRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return affected(r.db.WithContext(ctx).Model(&model.List{}).Where("id = ?", id).Updates(fields))
}

func (r *listRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&model.ListItem{}, &model.ListLike{}, &model.ListComment{}} {
			if err := tx.Where("list_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return affected(tx.Where("id = ?", id).Delete(&model.List{}))
	})
}

func (r *listRepository) page(q *gorm.DB, limit, offset int) ([]model.List, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.List
	err := q.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *listRepository) ListByUser(ctx context.Context, userID string, includePrivate bool, limit, offset int) ([]model.List, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.List{}).Where("user_id = ?", userID)
	if !includePrivate {
		q = q.Where("is_public = ?", true)
	}
	return r.page(q, limit, offset)
}

func (r *listRepository) ListPublic(ctx context.Context, limit, offset int) ([]model.List, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&model.List{}).Where("is_public = ?", true), limit, offset)
}

func (r *listRepository) AddItem(ctx context.Context, item *model.ListItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxIdx int
		if err := tx.Model(&model.ListItem{}).
			Where("list_id = ?", item.ListID).
			Select("COALESCE(MAX(order_index), -1)").
			Scan(&maxIdx).Error; err != nil {
			return err
		}
		item.OrderIndex = maxIdx + 1
		if err := tx.Omit("Album").Create(item).Error; err != nil {
			return err
		}
		return tx.Model(&model.List{}).Where("id = ?", item.ListID).Update("updated_at", tx.NowFunc()).Error
	})
	return translate(err)
}

func (r *listRepository) RemoveItem(ctx context.Context, listID, albumID string) error {
	return affected(r.db.WithContext(ctx).
		Where("list_id = ? AND album_id = ?", listID, albumID).
		Delete(&model.ListItem{}))
}

func (r *listRepository) UpdateItemOrder(ctx context.Context, listID, albumID string, orderIndex int) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.ListItem{}).
		Where("list_id = ? AND album_id = ?", listID, albumID).
		Update("order_index", orderIndex))
}

func (r *listRepository) ListItems(ctx context.Context, listID string) ([]model.ListItem, error) {
	var items []model.ListItem
	err := r.db.WithContext(ctx).
		Preload("Album").
		Where("list_id = ?", listID).
		Order("order_index ASC, created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *listRepository) CountItems(ctx context.Context, listID string) (int64, error) {
	return count[model.ListItem](ctx, r.db, "list_id = ?", listID)
}

func (r *listRepository) ToggleLike(ctx context.Context, userID, listID string) (bool, error) {
	row := &model.ListLike{ID: uuid.New().String(), UserID: userID, ListID: listID}
	return toggle(ctx, r.db, row, "user_id = ? AND list_id = ?", userID, listID)
}

func (r *listRepository) CountLikes(ctx context.Context, listID string) (int64, error) {
	return count[model.ListLike](ctx, r.db, "list_id = ?", listID)
}

func (r *listRepository) HasLiked(ctx context.Context, userID, listID string) (bool, error) {
	return exists[model.ListLike](ctx, r.db, "user_id = ? AND list_id = ?", userID, listID)
}

func (r *listRepository) CreateComment(ctx context.Context, c *model.ListComment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Omit("User").Create(c).Error)
}

func (r *listRepository) GetComment(ctx context.Context, id string) (*model.ListComment, error) {
	var c model.ListComment
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *listRepository) UpdateComment(ctx context.Context, id, content string) error {
	return affected(r.db.WithContext(ctx).Model(&model.ListComment{}).Where("id = ?", id).Update("content", content))
}

func (r *listRepository) DeleteComment(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ListComment{}))
}

func (r *listRepository) CountComments(ctx context.Context, listID string) (int64, error) {
	return count[model.ListComment](ctx, r.db, "list_id = ?", listID)
}

func (r *listRepository) ListComments(ctx context.Context, listID string, limit, offset int) ([]model.ListComment, int64, error) {
	total, err := r.CountComments(ctx, listID)
	if err != nil {
		return nil, 0, err
	}
	var rows []model.ListComment
	err = r.db.WithContext(ctx).
		Preload("User").
		Where("list_id = ?", listID).
		Order("created_at ASC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}
