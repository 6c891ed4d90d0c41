package api

import (
	"context"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/d60-Lab/tuneboxd/config"
	_ "github.com/d60-Lab/tuneboxd/docs"
	"github.com/d60-Lab/tuneboxd/internal/api/handler"
	"github.com/d60-Lab/tuneboxd/internal/api/middleware"
	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/pkg/logger"
	"github.com/d60-Lab/tuneboxd/pkg/metrics"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Config  *config.Config
	Handler *handler.Handler
	Auth    middleware.Authenticator
	Limiter *middleware.RateLimiter
	DB      Pinger
}

// NewRouter 组装中间件与全部路由
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.RequestID(), middleware.AccessLog(), middleware.Metrics())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/health", health(d.DB))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	if cfg.RateLimit.Enabled && d.Limiter != nil {
		v1.Use(d.Limiter.Middleware())
	}
	h := d.Handler
	authed := middleware.RequireAuth(d.Auth)
	optional := middleware.OptionalAuth(d.Auth)

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", authed, h.Me)
		authGroup.GET("/verify-email", h.VerifyEmail)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.POST("/reset-password", h.ResetPassword)
	}

	users := v1.Group("/users")
	{
		users.PATCH("/me", authed, h.UpdateProfile)
		users.GET("/search", h.SearchUsers)
		users.GET("/:id/followers", optional, h.ListFollowers)
		users.GET("/:id/following", optional, h.ListFollowing)
		users.GET("/:id/artists", h.ListArtists)
		users.GET("/:id/reviews", h.ListUserReviews)
		users.GET("/:id/lists", optional, h.ListUserLists)
		users.GET("/:id/listening-history", h.UserListeningHistory)
	}
	v1.GET("/profiles/:username", optional, h.GetProfile)

	// 查询关注状态允许匿名，未登录恒为 false
	follow := v1.Group("/follow")
	{
		follow.POST("", authed, h.Follow)
		follow.DELETE("", authed, h.Unfollow)
		follow.GET("", optional, h.IsFollowing)
	}
	artists := v1.Group("/artists/follow")
	{
		artists.POST("", authed, h.FollowArtist)
		artists.DELETE("", authed, h.UnfollowArtist)
		artists.GET("", optional, h.IsFollowingArtist)
	}

	notifications := v1.Group("/notifications", authed)
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.PATCH("/read-all", h.MarkAllNotificationsRead)
		notifications.PATCH("/:id/read", h.MarkNotificationRead)
		notifications.DELETE("/:id", h.DeleteNotification)
		notifications.DELETE("", h.DeleteAllNotifications)
	}

	v1.GET("/social/activity", authed, h.Activity)

	reviews := v1.Group("/reviews")
	{
		reviews.GET("", h.ListRecentReviews)
		reviews.POST("", authed, h.CreateReview)
		reviews.GET("/:id", h.GetReview)
		reviews.PATCH("/:id", authed, h.UpdateReview)
		reviews.DELETE("/:id", authed, h.DeleteReview)
		reviews.POST("/:id/like", authed, h.ToggleReviewLike)
		reviews.GET("/:id/likes", optional, h.ReviewLikes)
	}
	v1.GET("/albums/:spotify_id/reviews", h.ListAlbumReviews)

	lists := v1.Group("/lists")
	{
		lists.GET("", h.ListPublicLists)
		lists.POST("", authed, h.CreateList)
		lists.GET("/:id", optional, h.GetList)
		lists.PATCH("/:id", authed, h.UpdateList)
		lists.DELETE("/:id", authed, h.DeleteList)
		lists.POST("/:id/albums", authed, h.AddListAlbum)
		lists.DELETE("/:id/albums/:album_id", authed, h.RemoveListAlbum)
		lists.PUT("/:id/albums/:album_id/order", authed, h.ReorderListAlbum)
		lists.POST("/:id/like", authed, h.ToggleListLike)
		lists.GET("/:id/comments", optional, h.ListComments)
		lists.POST("/:id/comments", authed, h.AddListComment)
		lists.PATCH("/comments/:comment_id", authed, h.UpdateListComment)
		lists.DELETE("/comments/:comment_id", authed, h.DeleteListComment)
	}

	forum := v1.Group("/forum")
	{
		forum.GET("/categories", h.ForumCategories)
		forum.GET("/languages", h.ForumLanguages)
		forum.GET("/threads", h.ListThreads)
		forum.POST("/threads", authed, h.CreateThread)
		forum.GET("/threads/:id", optional, h.GetThread)
		forum.PATCH("/threads/:id", authed, h.UpdateThread)
		forum.DELETE("/threads/:id", authed, h.DeleteThread)
		forum.GET("/threads/:id/replies", h.ListReplies)
		forum.POST("/threads/:id/replies", authed, h.CreateReply)
		forum.PATCH("/replies/:id", authed, h.UpdateReply)
		forum.DELETE("/replies/:id", authed, h.DeleteReply)
		forum.POST("/likes", authed, h.ToggleForumLike)

		mod := forum.Group("", authed, middleware.RequireRole(model.RoleModerator))
		mod.PUT("/threads/:id/lock", h.LockThread)
		mod.PUT("/threads/:id/pin", h.PinThread)
	}

	watchlist := v1.Group("/watchlist", authed)
	{
		watchlist.GET("", h.Watchlist)
		watchlist.POST("", h.AddToWatchlist)
		watchlist.DELETE("", h.RemoveFromWatchlist)
	}
	v1.GET("/listen-list/check", authed, h.CheckListenList)

	history := v1.Group("/listening-history", authed)
	{
		history.GET("", h.MyListeningHistory)
		history.POST("", h.LogListen)
		history.DELETE("", h.RemoveListen)
	}

	v1.GET("/track-favorites/stats", h.TrackStats)
	favorites := v1.Group("/track-favorites", authed)
	{
		favorites.GET("", h.TrackFavorites)
		favorites.POST("", h.FavoriteTrack)
		favorites.DELETE("", h.UnfavoriteTrack)
	}

	return r
}

func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
