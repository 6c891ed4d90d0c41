package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// translate 把驱动/gorm 错误归一成仓储层哨兵错误
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isDuplicate(err):
		return ErrDuplicate
	default:
		return err
	}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

// affected 删除/更新 0 行时返回 ErrNotFound
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// toggle 存在则删除，否则插入；唯一索引兜底并发重复提交
func toggle[T any](ctx context.Context, db *gorm.DB, row *T, query string, args ...any) (bool, error) {
	liked := false
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where(query, args...).Delete(new(T))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		liked = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
	})
	if err != nil {
		return false, translate(err)
	}
	return liked, nil
}

func count[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(new(T)).Where(query, args...).Count(&n).Error
	return n, err
}

func exists[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (bool, error) {
	n, err := count[T](ctx, db, query, args...)
	return n > 0, err
}
