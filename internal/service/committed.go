package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/tuneboxd/pkg/logger"
)

// afterCommit 主写入已提交后的回读；失败只记日志并返回 fallback，写入结果以提交为准
func afterCommit[T any](ctx context.Context, op string, fallback T, load func(context.Context) (T, error)) T {
	v, err := load(ctx)
	if err != nil {
		logger.Warn("read after commit failed", zap.String("op", op), zap.Error(err))
		return fallback
	}
	return v
}
