// @title           Tuneboxd API
// @version         1.0
// @description     Tuneboxd 社交层：关注、通知、动态、乐评、歌单与论坛
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     Bearer <token>
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/tuneboxd/config"
	"github.com/d60-Lab/tuneboxd/internal/app"
	"github.com/d60-Lab/tuneboxd/pkg/cache"
	"github.com/d60-Lab/tuneboxd/pkg/database"
	"github.com/d60-Lab/tuneboxd/pkg/logger"
	"github.com/d60-Lab/tuneboxd/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer logger.Sync()
	gin.SetMode(cfg.Server.Mode)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			EnableTracing:    cfg.Sentry.TracesSampleRate > 0,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
		}); err != nil {
			logger.Fatal("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("tracing init failed", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	// 必须是无类型 nil，否则 cache.New 会误判 redis 已启用
	var rdb redis.UniversalClient
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("redis connect failed", zap.Error(err))
		}
		defer client.Close()
		rdb = client
	}

	a, err := app.New(cfg, db, rdb)
	if err != nil {
		logger.Fatal("app init failed", zap.Error(err))
	}

	if a.Janitor != nil {
		if err := a.Janitor.Start(); err != nil {
			logger.Fatal("notification janitor start failed", zap.Error(err))
		}
	}

	// 回收长时间空闲的限流桶
	sched, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("scheduler init failed", zap.Error(err))
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			if n := a.Limiter.Sweep(); n > 0 {
				logger.Debug("rate limiter swept", zap.Int("visitors", n))
			}
		}),
	); err != nil {
		logger.Fatal("schedule limiter sweep failed", zap.Error(err))
	}
	sched.Start()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      a.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if a.Janitor != nil {
		if err := a.Janitor.Stop(); err != nil {
			logger.Error("notification janitor stop", zap.Error(err))
		}
	}
	if err := sched.Shutdown(); err != nil {
		logger.Error("scheduler shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
