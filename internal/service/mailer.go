package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/pkg/logger"
)

// Mailer 投递验证邮件与重置密码邮件。投递失败不影响调用方的状态变更
type Mailer interface {
	SendVerification(ctx context.Context, u *model.User, token string) error
	SendPasswordReset(ctx context.Context, u *model.User, token string) error
}

// LogMailer 不发信，只记录一条日志；令牌不落日志
type LogMailer struct{}

func (LogMailer) SendVerification(_ context.Context, u *model.User, _ string) error {
	logger.Info("verification mail queued", zap.String("user_id", u.ID))
	return nil
}

func (LogMailer) SendPasswordReset(_ context.Context, u *model.User, _ string) error {
	logger.Info("password reset mail queued", zap.String("user_id", u.ID))
	return nil
}
