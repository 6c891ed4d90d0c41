// Package app wires repositories, services and the HTTP router together.
package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/tuneboxd/config"
	"github.com/d60-Lab/tuneboxd/internal/api"
	"github.com/d60-Lab/tuneboxd/internal/api/handler"
	"github.com/d60-Lab/tuneboxd/internal/api/middleware"
	"github.com/d60-Lab/tuneboxd/internal/api/validation"
	"github.com/d60-Lab/tuneboxd/internal/authz"
	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
	"github.com/d60-Lab/tuneboxd/internal/service"
	"github.com/d60-Lab/tuneboxd/pkg/auth"
	"github.com/d60-Lab/tuneboxd/pkg/cache"
)

type App struct {
	Router        *gin.Engine
	Janitor       *service.NotificationJanitor
	Limiter       *middleware.RateLimiter
	Notifications service.NotificationService
}

// New 组装应用；rdb 为 nil 时缓存使用进程内 LRU
func New(cfg *config.Config, db *gorm.DB, rdb redis.UniversalClient) (*App, error) {
	if err := validation.Register(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	users := repository.NewUserRepository(db)
	follows := repository.NewFollowRepository(db)
	reviews := repository.NewReviewRepository(db)
	albums := repository.NewAlbumRepository(db)

	stats := cache.New[string, model.ProfileStats](rdb, cache.Options{
		Namespace: "stats", TTL: cfg.Cache.TTL, Size: cfg.Cache.Size,
	})
	directory := service.NewUserDirectory(users, cache.New[string, model.UserSummary](rdb, cache.Options{
		Namespace: "user", TTL: cfg.Cache.TTL, Size: cfg.Cache.Size,
	}))

	notifications := service.NewNotificationService(repository.NewNotificationRepository(db), directory)
	authService := service.NewAuthService(users, repository.NewVerificationRepository(db), auth.NewManager(cfg.JWT), nil)

	h := handler.New(handler.Services{
		Auth:          authService,
		Users:         service.NewUserService(users, follows, reviews, directory, stats),
		Relationships: service.NewRelationshipService(follows, repository.NewArtistFollowRepository(db), users, notifications, stats),
		Notifications: notifications,
		Feed:          service.NewFeedService(repository.NewActivityRepository(db)),
		Reviews:       service.NewReviewService(reviews, albums, enforcer, notifications, stats),
		Lists:         service.NewListService(repository.NewListRepository(db), albums, enforcer, notifications, directory),
		Forum:         service.NewForumService(repository.NewForumRepository(db), enforcer, notifications),
		Library:       service.NewLibraryService(repository.NewLibraryRepository(db), albums, users),
	}, cfg.Pagination)

	janitor, err := service.NewNotificationJanitor(notifications, cfg.Notification)
	if err != nil {
		return nil, fmt.Errorf("notification janitor: %w", err)
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit)

	router := api.NewRouter(api.Deps{
		Config:  cfg,
		Handler: h,
		Auth:    authService,
		Limiter: limiter,
		DB:      sqlDB,
	})
	return &App{Router: router, Janitor: janitor, Limiter: limiter, Notifications: notifications}, nil
}
