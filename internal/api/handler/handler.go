package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tuneboxd/config"
	"github.com/d60-Lab/tuneboxd/internal/api/middleware"
	"github.com/d60-Lab/tuneboxd/internal/api/validation"
	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/service"
	"github.com/d60-Lab/tuneboxd/pkg/response"
)

// Services 处理器依赖的全部服务
type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Relationships service.RelationshipService
	Notifications service.NotificationService
	Feed          service.FeedService
	Reviews       service.ReviewService
	Lists         service.ListService
	Forum         service.ForumService
	Library       service.LibraryService
}

type Handler struct {
	authService   service.AuthService
	userService   service.UserService
	relService    service.RelationshipService
	notifyService service.NotificationService
	feedService   service.FeedService
	reviewService service.ReviewService
	listService   service.ListService
	forumService  service.ForumService
	libService    service.LibraryService
	pagination    config.PaginationConfig
}

func New(s Services, pagination config.PaginationConfig) *Handler {
	return &Handler{
		authService:   s.Auth,
		userService:   s.Users,
		relService:    s.Relationships,
		notifyService: s.Notifications,
		feedService:   s.Feed,
		reviewService: s.Reviews,
		listService:   s.Lists,
		forumService:  s.Forum,
		libService:    s.Library,
		pagination:    pagination,
	}
}

// page 解析 limit/offset，兼容 page/page_size；非法值回落到默认
func (h *Handler) page(c *gin.Context) (limit, offset int) {
	limit = h.pagination.DefaultLimit
	if v, ok := positive(c.Query("limit")); ok {
		limit = v
	} else if v, ok := positive(c.Query("page_size")); ok {
		limit = v
	}
	if limit > h.pagination.MaxLimit {
		limit = h.pagination.MaxLimit
	}

	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	} else if p, ok := positive(c.Query("page")); ok {
		offset = (p - 1) * limit
	}
	return limit, offset
}

func positive(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// paged 列表响应：{key: items, pagination}
func paged[T any](key string, p *model.Page[T]) gin.H {
	total := p.Total
	return gin.H{
		key: p.Items,
		"pagination": service.Pagination{
			Limit:   p.Limit,
			Offset:  p.Offset,
			Total:   &total,
			HasMore: p.HasMore,
		},
	}
}

// bind 绑定 JSON，校验失败时已写出 400
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if field, msg, ok := validation.FieldError(err); ok {
			response.InvalidField(c, field, msg)
			return false
		}
		response.BadRequest(c, "invalid request body")
		return false
	}
	return true
}

// actor 当前请求者；OptionalAuth 下匿名时为零值
func actor(c *gin.Context) model.Actor {
	a, _ := middleware.Actor(c)
	return a
}

func requiredQuery(c *gin.Context, name string) (string, bool) {
	v := c.Query(name)
	if v == "" {
		response.InvalidField(c, name, name+" is required")
		return "", false
	}
	return v, true
}
