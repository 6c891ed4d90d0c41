package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/tuneboxd/internal/model"
)

type VerificationRepository interface {
	Create(ctx context.Context, v *model.EmailVerification) error
	Get(ctx context.Context, token string) (*model.EmailVerification, error)
	// Consume 标记邮箱已验证，并删除该用户的全部验证令牌
	Consume(ctx context.Context, userID string) error
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(ctx context.Context, v *model.EmailVerification) error {
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

func (r *verificationRepository) Get(ctx context.Context, token string) (*model.EmailVerification, error) {
	var v model.EmailVerification
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *verificationRepository) Consume(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).Where("id = ?", userID).Update("email_verified", true)
		if err := affected(res); err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&model.EmailVerification{}).Error
	})
}
