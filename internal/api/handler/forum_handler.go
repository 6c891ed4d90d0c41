package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
	"github.com/d60-Lab/tuneboxd/internal/service"
	"github.com/d60-Lab/tuneboxd/pkg/response"
)

type replyRequest struct {
	Content string `json:"content" binding:"required,notblank"`
}

type flagRequest struct {
	Value *bool `json:"value" binding:"required"`
}

type forumLikeRequest struct {
	TargetType model.LikeTarget `json:"target_type" binding:"required,oneof=thread reply"`
	TargetID   string           `json:"target_id" binding:"required,notblank"`
}

// ListThreads 主题列表，置顶优先
// @Summary 主题列表
// @Tags 论坛
// @Produce json
// @Param category query string false "分类"
// @Param language query string false "语言"
// @Param user_id query string false "作者"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/forum/threads [get]
func (h *Handler) ListThreads(c *gin.Context) {
	limit, offset := h.page(c)
	f := repository.ThreadFilter{
		Category: c.Query("category"),
		Language: c.Query("language"),
		UserID:   c.Query("user_id"),
	}
	page, err := h.forumService.ListThreads(c.Request.Context(), f, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, paged("threads", page))
}

// CreateThread 发帖
// @Summary 发帖
// @Tags 论坛
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ThreadInput true "主题"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/v1/forum/threads [post]
func (h *Handler) CreateThread(c *gin.Context) {
	var req service.ThreadInput
	if !bind(c, &req) {
		return
	}
	t, err := h.forumService.CreateThread(c.Request.Context(), actor(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"thread": t})
}

// GetThread 主题详情
// @Summary 主题详情
// @Tags 论坛
// @Produce json
// @Param id path string true "主题ID"
// @Success 200 {object} service.ThreadDetail
// @Failure 404 {object} response.Response
// @Router /api/v1/forum/threads/{id} [get]
func (h *Handler) GetThread(c *gin.Context) {
	d, err := h.forumService.GetThread(c.Request.Context(), c.Param("id"), actor(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"thread": d})
}

// UpdateThread 修改主题（作者）
// @Summary 修改主题
// @Tags 论坛
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "主题ID"
// @Param request body service.UpdateThreadInput true "修改内容"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/forum/threads/{id} [patch]
func (h *Handler) UpdateThread(c *gin.Context) {
	var req service.UpdateThreadInput
	if !bind(c, &req) {
		return
	}
	t, err := h.forumService.UpdateThread(c.Request.Context(), actor(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"thread": t})
}

// DeleteThread 删除主题（作者或版主）
// @Summary 删除主题
// @Tags 论坛
// @Security BearerAuth
// @Param id path string true "主题ID"
// @Success 200 {object} response.Response
// @Router /api/v1/forum/threads/{id} [delete]
func (h *Handler) DeleteThread(c *gin.Context) {
	if err := h.forumService.DeleteThread(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "thread deleted")
}

// LockThread 锁定/解锁（版主）
// @Summary 锁定主题
// @Tags 论坛
// @Accept json
// @Security BearerAuth
// @Param id path string true "主题ID"
// @Param request body flagRequest true "是否锁定"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.Response
// @Router /api/v1/forum/threads/{id}/lock [put]
func (h *Handler) LockThread(c *gin.Context) {
	var req flagRequest
	if !bind(c, &req) {
		return
	}
	t, err := h.forumService.SetLocked(c.Request.Context(), actor(c), c.Param("id"), *req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"thread": t})
}

// PinThread 置顶/取消（版主）
// @Summary 置顶主题
// @Tags 论坛
// @Accept json
// @Security BearerAuth
// @Param id path string true "主题ID"
// @Param request body flagRequest true "是否置顶"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.Response
// @Router /api/v1/forum/threads/{id}/pin [put]
func (h *Handler) PinThread(c *gin.Context) {
	var req flagRequest
	if !bind(c, &req) {
		return
	}
	t, err := h.forumService.SetPinned(c.Request.Context(), actor(c), c.Param("id"), *req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"thread": t})
}

// ListReplies 回复，按时间正序
// @Summary 回复列表
// @Tags 论坛
// @Produce json
// @Param id path string true "主题ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/forum/threads/{id}/replies [get]
func (h *Handler) ListReplies(c *gin.Context) {
	limit, offset := h.page(c)
	page, err := h.forumService.Replies(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, paged("replies", page))
}

// CreateReply 回复主题；锁定主题返回 403
// @Summary 回复主题
// @Tags 论坛
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "主题ID"
// @Param request body replyRequest true "回复"
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} response.Response
// @Router /api/v1/forum/threads/{id}/replies [post]
func (h *Handler) CreateReply(c *gin.Context) {
	var req replyRequest
	if !bind(c, &req) {
		return
	}
	rp, err := h.forumService.Reply(c.Request.Context(), actor(c), c.Param("id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"reply": rp})
}

// UpdateReply 修改回复（作者）
// @Summary 修改回复
// @Tags 论坛
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "回复ID"
// @Param request body replyRequest true "回复"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/forum/replies/{id} [patch]
func (h *Handler) UpdateReply(c *gin.Context) {
	var req replyRequest
	if !bind(c, &req) {
		return
	}
	rp, err := h.forumService.UpdateReply(c.Request.Context(), actor(c), c.Param("id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"reply": rp})
}

// DeleteReply 删除回复（作者或版主）
// @Summary 删除回复
// @Tags 论坛
// @Security BearerAuth
// @Param id path string true "回复ID"
// @Success 200 {object} response.Response
// @Router /api/v1/forum/replies/{id} [delete]
func (h *Handler) DeleteReply(c *gin.Context) {
	if err := h.forumService.DeleteReply(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "reply deleted")
}

// ToggleForumLike 主题/回复点赞切换
// @Summary 论坛点赞切换
// @Tags 论坛
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body forumLikeRequest true "目标"
// @Success 200 {object} service.LikeState
// @Failure 400 {object} response.Response
// @Router /api/v1/forum/likes [post]
func (h *Handler) ToggleForumLike(c *gin.Context) {
	var req forumLikeRequest
	if !bind(c, &req) {
		return
	}
	st, err := h.forumService.ToggleLike(c.Request.Context(), actor(c), req.TargetType, req.TargetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"liked": st.Liked, "likeCount": st.LikeCount})
}

// ForumCategories 分类及主题数，包含默认分类
// @Summary 论坛分类
// @Tags 论坛
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/forum/categories [get]
func (h *Handler) ForumCategories(c *gin.Context) {
	cats, err := h.forumService.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"categories": cats})
}

// ForumLanguages 语言及主题数
// @Summary 论坛语言
// @Tags 论坛
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/forum/languages [get]
func (h *Handler) ForumLanguages(c *gin.Context) {
	response.Success(c, gin.H{"languages": h.forumService.Languages(c.Request.Context())})
}
