package service

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/d60-Lab/tuneboxd/config"
	"github.com/d60-Lab/tuneboxd/pkg/logger"
)

// NotificationJanitor 定期清理超过保留期的通知
type NotificationJanitor struct {
	svc       NotificationService
	retention time.Duration
	interval  time.Duration
	scheduler gocron.Scheduler
	now       func() time.Time
}

// NewNotificationJanitor returns nil when retention is disabled.
func NewNotificationJanitor(svc NotificationService, cfg config.NotificationConfig) (*NotificationJanitor, error) {
	if cfg.RetentionDays <= 0 {
		return nil, nil
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = 12 * time.Hour
	}
	return &NotificationJanitor{
		svc:       svc,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		interval:  interval,
		scheduler: scheduler,
		now:       time.Now,
	}, nil
}

// RunOnce deletes everything older than the retention window.
func (j *NotificationJanitor) RunOnce(ctx context.Context) (int64, error) {
	return j.svc.PurgeOlderThan(ctx, j.now().UTC().Add(-j.retention))
}

func (j *NotificationJanitor) Start() error {
	_, err := j.scheduler.NewJob(
		gocron.DurationJob(j.interval),
		gocron.NewTask(func(ctx context.Context) {
			n, err := j.RunOnce(ctx)
			if err != nil {
				logger.Error("notification cleanup failed", zap.Error(err))
				return
			}
			logger.Info("notification cleanup done", zap.Int64("deleted", n))
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	j.scheduler.Start()
	return nil
}

func (j *NotificationJanitor) Stop() error {
	return j.scheduler.Shutdown()
}
